package testutils

import (
	"encoding/json"
	"os"
	"path"

	"github.com/99designs/gqlgen/graphql"
	"github.com/pmezard/go-difflib/difflib"
)

// UpdateGoldenEnv rewrites every golden file from the actual output when set to "true".
const UpdateGoldenEnv = "GAMEREVIEW_UPDATE_GOLDEN"

// CheckGoldenResponse compares the indented JSON form of resp with the
// golden file at expectFilePath.
func CheckGoldenResponse(t TestingT, resp *graphql.Response, expectFilePath string) {
	t.Helper()

	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		t.Fatal(err)
	}

	CheckGoldenFile(t, b, expectFilePath)
}

// CheckGoldenFile compares actual with the content of expectFilePath.
// A missing golden file is created from actual.
func CheckGoldenFile(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	expect, err := os.ReadFile(expectFilePath)
	if os.IsNotExist(err) || (err == nil && os.Getenv(UpdateGoldenEnv) == "true") {
		writeGoldenFile(t, actual, expectFilePath)
		return
	} else if err != nil {
		t.Error(err)
		return
	}

	if string(expect) == string(actual) {
		return
	}

	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expect)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: expectFilePath,
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Error(d)
}

func writeGoldenFile(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	if err := os.MkdirAll(path.Dir(expectFilePath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(expectFilePath, actual, 0644); err != nil {
		t.Fatal(err)
	}
	t.Logf("golden file %s is written", expectFilePath)
}
