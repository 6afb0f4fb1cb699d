package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/graphql"
)

type recorder struct {
	*testing.T
	errors []string
}

func (r *recorder) Error(args ...interface{}) {
	for _, arg := range args {
		r.errors = append(r.errors, arg.(string))
	}
}

func TestCheckGoldenResponse(t *testing.T) {
	t.Setenv(UpdateGoldenEnv, "")

	p := filepath.Join(t.TempDir(), "expected", "games.response.json")
	resp := &graphql.Response{Data: []byte(`{"games":[]}`)}

	r := &recorder{T: t}
	CheckGoldenResponse(r, resp, p)
	if len(r.errors) != 0 {
		t.Fatal(r.errors)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"games": []`) {
		t.Errorf("unexpected golden file: %s", b)
	}

	CheckGoldenResponse(r, resp, p)
	if len(r.errors) != 0 {
		t.Fatal(r.errors)
	}

	CheckGoldenResponse(r, &graphql.Response{Data: []byte(`{"games":null}`)}, p)
	if len(r.errors) != 1 || !strings.Contains(r.errors[0], `"games": null`) {
		t.Errorf("unexpected diff: %v", r.errors)
	}

	t.Setenv(UpdateGoldenEnv, "true")
	r.errors = nil
	CheckGoldenResponse(r, &graphql.Response{Data: []byte(`{"games":null}`)}, p)
	if len(r.errors) != 0 {
		t.Fatal(r.errors)
	}
	b, err = os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"games": null`) {
		t.Errorf("golden file is not updated: %s", b)
	}
}
