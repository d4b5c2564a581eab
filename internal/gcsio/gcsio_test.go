package gcsio

import "testing"

func TestIsURI(t *testing.T) {
	if !IsURI("gs://bucket/file.pdf") {
		t.Error("gs:// URI not recognized")
	}
	if IsURI("/local/file.pdf") {
		t.Error("local path misclassified as URI")
	}
}

func TestSplitURI(t *testing.T) {
	bucket, object, err := splitURI("gs://statements/2022/march.pdf")
	if err != nil {
		t.Fatalf("splitURI: %v", err)
	}
	if bucket != "statements" || object != "2022/march.pdf" {
		t.Errorf("got %q, %q", bucket, object)
	}

	if _, _, err := splitURI("gs://bucket-only"); err == nil {
		t.Error("expected an error for a URI without an object path")
	}
	if _, _, err := splitURI("http://example.com/x"); err == nil {
		t.Error("expected an error for a non-gs URI")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct{ uri, want string }{
		{"gs://bucket/folder/file.pdf", "file.pdf"},
		{"gs://bucket/file.csv", "file.csv"},
		{"gs://bucket", "bucket"},
	}
	for _, tt := range tests {
		if got := Filename(tt.uri); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
