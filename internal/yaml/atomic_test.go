package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

type record struct {
	SchemaVersion int    `yaml:"schema_version"`
	FileType      string `yaml:"file_type"`
	Value         string `yaml:"value"`
}

func TestAtomicWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")

	want := record{SchemaVersion: 1, FileType: FileTypeManifest, Value: "hello"}
	if err := AtomicWrite(path, want); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got record
	if err := yamlv3.Unmarshal(content, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestAtomicWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")

	if err := AtomicWrite(path, record{SchemaVersion: 1, FileType: FileTypeManifest, Value: "first"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := AtomicWrite(path, record{SchemaVersion: 1, FileType: FileTypeManifest, Value: "second"}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "second") {
		t.Errorf("content = %q, want second write visible", content)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := AtomicWrite(filepath.Join(dir, "record.yaml"), record{SchemaVersion: 1}); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".studyctl-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestValidateSchemaHeader(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}

	good := write("good.yaml", "schema_version: 1\nfile_type: study_manifest\n")
	if err := ValidateSchemaHeader(good, FileTypeManifest); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero version", "schema_version: 0\nfile_type: study_manifest\n", "invalid schema_version"},
		{"future version", "schema_version: 99\nfile_type: study_manifest\n", "unsupported schema_version"},
		{"missing type", "schema_version: 1\n", "missing file_type"},
		{"unknown type", "schema_version: 1\nfile_type: grocery_list\n", "unknown file_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(tt.name+".yaml", tt.content)
			err := ValidateSchemaHeader(path, "")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("want error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
