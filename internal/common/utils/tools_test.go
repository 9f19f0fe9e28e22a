package utils

import (
	"os"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 12 {
			t.Fatalf("GenerateID() = %q, want 12 chars", id)
		}
		if seen[id] {
			t.Errorf("GenerateID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestStringSet(t *testing.T) {
	ids := []string{"a", "b"}
	ids, changed := AddString(ids, "b")
	if changed || len(ids) != 2 {
		t.Errorf("AddString existing: got %v changed=%v", ids, changed)
	}
	ids, changed = AddString(ids, "c")
	if !changed || len(ids) != 3 {
		t.Errorf("AddString new: got %v changed=%v", ids, changed)
	}
	ids, changed = RemoveString(ids, "a")
	if !changed || ContainsString(ids, "a") {
		t.Errorf("RemoveString: got %v changed=%v", ids, changed)
	}
	_, changed = RemoveString(ids, "zzz")
	if changed {
		t.Errorf("RemoveString missing id reported a change")
	}
}

func TestApplyEnv(t *testing.T) {
	conf := NewSample()
	conf.Domain = "http://example.com"
	os.Setenv("JWT_KEY", "secret")
	os.Setenv("MONGO_URI", "mongodb://db:27017")
	defer os.Unsetenv("JWT_KEY")
	defer os.Unsetenv("MONGO_URI")
	conf.ApplyEnv()
	if conf.JwtKey != "secret" {
		t.Errorf("JwtKey = %q, want secret", conf.JwtKey)
	}
	if conf.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Mongo.URI = %q", conf.Mongo.URI)
	}
	if conf.Domain != "http://example.com/" {
		t.Errorf("Domain = %q, want trailing slash", conf.Domain)
	}
}
