package testutils

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
)

func TestFindOption(t *testing.T) {
	source := heredoc.Doc(`
		# option:variables: game.variables.json
		# option:introspection: true
		query Game($id: ID!) { game(id: $id) { title } }
	`)

	if v := FindOptionString(t, "variables", source); v != "game.variables.json" {
		t.Errorf("unexpected value: %s", v)
	}
	if v := FindOptionString(t, "operationName", source); v != "" {
		t.Errorf("unexpected value: %s", v)
	}
	if !FindOptionBool(t, "introspection", source) {
		t.Error("introspection option is not found")
	}
	if FindOptionBool(t, "playground", source) {
		t.Error("unexpected playground option")
	}
}
