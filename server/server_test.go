package server

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
	"github.com/vvakame/gamereview/internal/dataset"
	"github.com/vvakame/gamereview/internal/gqlfun"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/model"
	"github.com/vvakame/gamereview/internal/testutils"
)

func TestExecutableSchema(t *testing.T) {
	const testFileDir = "./_testdata/assets"
	const expectFileDir = "./_testdata/expected"

	files, err := os.ReadDir(testFileDir)
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".graphql") {
			continue
		}

		file := file
		t.Run(file.Name(), func(t *testing.T) {
			ctx := context.Background()
			ctx = log.WithLogger(ctx, testr.New(t))

			b1, err := os.ReadFile(path.Join(testFileDir, file.Name()))
			if err != nil {
				t.Fatal(err)
			}
			rawQuery := string(b1)

			operationName := testutils.FindOptionString(t, "operationName", rawQuery)

			variablesFile := testutils.FindOptionString(t, "variables", rawQuery)
			variables := map[string]interface{}{}
			if variablesFile != "" {
				b2, err := os.ReadFile(path.Join(testFileDir, variablesFile))
				if err != nil {
					t.Fatal(err)
				}
				err = json.Unmarshal(b2, &variables)
				if err != nil {
					t.Fatal(err)
				}
			}

			t.Logf("operation: %s, operationName: %s, variableFile: %s", file.Name(), operationName, variablesFile)

			es, err := NewExecutableSchema(ctx, nil)
			if err != nil {
				t.Fatal(err)
			}

			response := gqlfun.Execute(ctx, es, rawQuery, variables, operationName)

			fileName := strings.TrimSuffix(file.Name(), ".graphql")

			testutils.CheckGoldenResponse(t, response, path.Join(expectFileDir, fileName+".response.json"))
		})
	}
}

func newScenarioSchema(t *testing.T) (context.Context, graphql.ExecutableSchema) {
	t.Helper()

	ctx := log.WithLogger(context.Background(), testr.New(t))
	es, err := NewExecutableSchema(ctx, &Config{
		Dataset: &dataset.StaticSource{
			Dataset: &model.Dataset{
				Games: []*model.Game{
					{ID: "1", Title: "Zelda", Platform: []string{"Switch"}},
				},
				Reviews: []*model.Review{
					{ID: "1", Rating: 9, Content: "great", GameID: "1", AuthorID: "1"},
					{ID: "2", Rating: 3, Content: "dangling", GameID: "404", AuthorID: "1"},
				},
				Authors: []*model.Author{
					{ID: "1", Name: "mario", Verified: true},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return ctx, es
}

func run(t *testing.T, ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]interface{}) (map[string]interface{}, *graphql.Response) {
	t.Helper()

	resp := gqlfun.Execute(ctx, es, query, variables, "")

	var data map[string]interface{}
	if len(resp.Data) != 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
	}

	return data, resp
}

func TestExecutableSchema_AddAndDeleteScenario(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	data, resp := run(t, ctx, es, heredoc.Doc(`
		mutation ($game: AddGameInput!) {
			addGame(game: $game) { id title platform }
		}
	`), map[string]interface{}{
		"game": map[string]interface{}{
			"title":    "Mario",
			"platform": []interface{}{"Switch", "NES"},
		},
	})
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	want := map[string]interface{}{
		"addGame": map[string]interface{}{
			"id":       "2",
			"title":    "Mario",
			"platform": []interface{}{"Switch", "NES"},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected addGame (-want +got):\n%s", diff)
	}

	data, _ = run(t, ctx, es, `{ games { id } }`, nil)
	if l := len(data["games"].([]interface{})); l != 2 {
		t.Errorf("unexpected games length: %d", l)
	}

	for i := 0; i < 2; i++ {
		data, resp = run(t, ctx, es, `mutation { deleteGame(id: "1") { id title } }`, nil)
		if len(resp.Errors) != 0 {
			t.Fatal(resp.Errors)
		}
		want = map[string]interface{}{
			"deleteGame": []interface{}{
				map[string]interface{}{"id": "2", "title": "Mario"},
			},
		}
		if diff := cmp.Diff(want, data); diff != "" {
			t.Errorf("unexpected deleteGame #%d (-want +got):\n%s", i, diff)
		}
	}

	data, _ = run(t, ctx, es, `{ game(id: "1") { id } }`, nil)
	if diff := cmp.Diff(map[string]interface{}{"game": nil}, data); diff != "" {
		t.Errorf("deleted game is still reachable (-want +got):\n%s", diff)
	}
}

func TestExecutableSchema_UpdateGame(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	data, resp := run(t, ctx, es, `mutation { updateGame(id: "1", edits: {title: "X"}) { id title platform } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	want := map[string]interface{}{
		"updateGame": map[string]interface{}{
			"id":       "1",
			"title":    "X",
			"platform": []interface{}{"Switch"},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected updateGame (-want +got):\n%s", diff)
	}

	data, resp = run(t, ctx, es, `mutation { updateGame(id: "404", edits: {title: "X"}) { id } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	if diff := cmp.Diff(map[string]interface{}{"updateGame": nil}, data); diff != "" {
		t.Errorf("unexpected updateGame (-want +got):\n%s", diff)
	}
}

func TestExecutableSchema_DanglingReference(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	data, resp := run(t, ctx, es, `{ review(id: "2") { id game { id } } author(id: "1") { name } }`, nil)

	want := map[string]interface{}{
		"review": nil,
		"author": map[string]interface{}{"name": "mario"},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	if p := resp.Errors[0].Path.String(); p != "review.game" {
		t.Errorf("unexpected error path: %s", p)
	}
}

func TestExecutableSchema_EmptyRelationship(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	_, resp := run(t, ctx, es, `mutation { addGame(game: {title: "Mario", platform: ["NES"]}) { id } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}

	data, resp := run(t, ctx, es, `{ game(id: "2") { reviews { id } } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	want := map[string]interface{}{
		"game": map[string]interface{}{"reviews": []interface{}{}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestExecutableSchema_ValidationErrors(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	queries := []string{
		`{ games { unknown } }`,
		`{ game { id } }`,
		`{ game(id: "1") }`,
		`mutation { addGame(game: {title: "Mario"}) { id } }`,
		`mutation { addGame(game: {title: 1, platform: ["NES"]}) { id } }`,
		`{ games { id }`,
	}
	for _, query := range queries {
		data, resp := run(t, ctx, es, query, nil)
		if len(resp.Errors) == 0 {
			t.Errorf("expected errors for %s", query)
		}
		if data != nil {
			t.Errorf("unexpected data for %s: %v", query, data)
		}
	}

	data, _ := run(t, ctx, es, `{ games { id } }`, nil)
	if l := len(data["games"].([]interface{})); l != 1 {
		t.Errorf("rejected mutation changed the store: %d games", l)
	}
}

func TestExecutableSchema_Introspection(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	data, resp := run(t, ctx, es, heredoc.Doc(`
		{
			__type(name: "EditGameInput") {
				kind
				inputFields {
					name
					type { kind name }
				}
			}
		}
	`), nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	want := map[string]interface{}{
		"__type": map[string]interface{}{
			"kind": "INPUT_OBJECT",
			"inputFields": []interface{}{
				map[string]interface{}{"name": "title", "type": map[string]interface{}{"kind": "SCALAR", "name": "String"}},
				map[string]interface{}{"name": "platform", "type": map[string]interface{}{"kind": "LIST", "name": nil}},
			},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected introspection result (-want +got):\n%s", diff)
	}
}

func TestExecutableSchema_FullIntrospection(t *testing.T) {
	ctx, es := newScenarioSchema(t)

	b, err := os.ReadFile("./_testdata/introspection/full.graphql")
	if err != nil {
		t.Fatal(err)
	}

	resp := gqlfun.Execute(ctx, es, string(b), nil, "IntrospectionQuery")
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}

	type typeRef struct {
		Kind   string   `json:"kind"`
		Name   *string  `json:"name"`
		OfType *typeRef `json:"ofType"`
	}
	type inputValue struct {
		Name string  `json:"name"`
		Type typeRef `json:"type"`
	}
	var data struct {
		Schema struct {
			QueryType struct {
				Name string `json:"name"`
			} `json:"queryType"`
			Types []struct {
				Kind   string `json:"kind"`
				Name   string `json:"name"`
				Fields []struct {
					Name string        `json:"name"`
					Args []*inputValue `json:"args"`
					Type typeRef       `json:"type"`
				} `json:"fields"`
			} `json:"types"`
			Directives []struct {
				Name string        `json:"name"`
				Args []*inputValue `json:"args"`
			} `json:"directives"`
		} `json:"__schema"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatal(err)
	}

	if data.Schema.QueryType.Name != "Query" {
		t.Errorf("unexpected query type: %s", data.Schema.QueryType.Name)
	}

	args := map[string][]string{}
	for _, typ := range data.Schema.Types {
		if typ.Kind != "OBJECT" {
			continue
		}
		if typ.Fields == nil {
			t.Errorf("fields of %s must not be null", typ.Name)
			continue
		}
		for _, field := range typ.Fields {
			if field.Args == nil {
				t.Errorf("args of %s.%s must not be null", typ.Name, field.Name)
				continue
			}
			var names []string
			for _, arg := range field.Args {
				names = append(names, arg.Name)
			}
			args[typ.Name+"."+field.Name] = names
		}
	}
	for _, directive := range data.Schema.Directives {
		if directive.Args == nil {
			t.Errorf("args of @%s must not be null", directive.Name)
		}
	}

	want := map[string][]string{
		"Query.game":          {"id"},
		"Query.games":         nil,
		"Mutation.addGame":    {"game"},
		"Mutation.updateGame": {"id", "edits"},
		"Game.reviews":        nil,
		"Review.game":         nil,
		"Author.verified":     nil,
		"__Type.fields":       {"includeDeprecated"},
	}
	for key, wantArgs := range want {
		gotArgs, ok := args[key]
		if !ok {
			t.Errorf("%s is missing", key)
			continue
		}
		if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
			t.Errorf("unexpected args of %s (-want +got):\n%s", key, diff)
		}
	}
}
