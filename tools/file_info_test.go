package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/sidekick-cli/sidekick/tools"
)

func TestFileInfo_FileAndDirectory(t *testing.T) {
	prepare(t, rel(t, "a.txt"), "12345")

	args, _ := json.Marshal(tools.FileInfoInput{Path: rel(t, "a.txt")})
	raw, err := tools.FileInfo(args)
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	var fi struct {
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
		Mode      string `json:"mode"`
		IsDir     bool   `json:"is_dir"`
	}
	if err := json.Unmarshal([]byte(raw), &fi); err != nil {
		t.Fatalf("result is not JSON metadata: %q", raw)
	}
	if fi.Name != "a.txt" || fi.SizeBytes != 5 || fi.IsDir || fi.Mode == "" {
		t.Fatalf("unexpected metadata: %+v", fi)
	}

	args, _ = json.Marshal(tools.FileInfoInput{Path: rel(t)})
	raw, err = tools.FileInfo(args)
	if err != nil {
		t.Fatalf("FileInfo dir: %v", err)
	}
	if err := json.Unmarshal([]byte(raw), &fi); err != nil {
		t.Fatalf("result is not JSON metadata: %q", raw)
	}
	if !fi.IsDir {
		t.Fatalf("expected directory metadata: %+v", fi)
	}
}

func TestFileInfo_MissingPathErrors(t *testing.T) {
	args, _ := json.Marshal(tools.FileInfoInput{Path: rel(t, "nope.txt")})
	if _, err := tools.FileInfo(args); err == nil {
		t.Fatal("expected error for missing path")
	}
}
