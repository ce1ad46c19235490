package sqldb

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestReplaceStaticPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		prefix byte
		want   string
	}{
		{"mysql untouched", "SELECT * FROM t WHERE a = ? AND b = ?", '?', "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"pgsql numbered", "SELECT * FROM t WHERE a = ? AND b = ?", '$', "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"quoted kept", "SELECT '?' , ? FROM t", '$', "SELECT '?' , $1 FROM t"},
		{"none", "SELECT 1", '$', "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceStaticPlaceholders(tt.in, tt.prefix); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadGroups(t *testing.T) {
	group := GroupFS{
		Group: "journal",
		FS: fstest.MapFS{
			"sql/insert.sql":   {Data: []byte("INSERT INTO t (a, b) VALUES (?, ?)")},
			"sql/create.sql":   {Data: []byte("CREATE TABLE t (id INT)")},
			"sql/create.pgsql": {Data: []byte("CREATE TABLE t (id BIGSERIAL)")},
			"sql/notes.txt":    {Data: []byte("ignored")},
		},
	}

	tests := []struct {
		dbtype string
		want   map[string]string
	}{
		{"pgsql", map[string]string{
			"journal.insert": "INSERT INTO t (a, b) VALUES ($1, $2)",
			"journal.create": "CREATE TABLE t (id BIGSERIAL)",
		}},
		{"mysql", map[string]string{
			"journal.insert": "INSERT INTO t (a, b) VALUES (?, ?)",
			"journal.create": "CREATE TABLE t (id INT)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.dbtype, func(t *testing.T) {
			store := NewRawStore()
			if err := LoadGroups(store, tt.dbtype, group); err != nil {
				t.Fatal(err)
			}
			got := map[string]string{}
			for key := range tt.want {
				got[key] = store.MustGet(key)
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", d)
			}
			if store.Len() != len(tt.want) {
				t.Errorf("store has %d statements, want %d", store.Len(), len(tt.want))
			}
		})
	}
}

func TestLoadGroupsMissingDir(t *testing.T) {
	err := LoadGroups(NewRawStore(), "pgsql", GroupFS{Group: "x", FS: fstest.MapFS{}})
	if err == nil {
		t.Fatal("expected an error for a group without a sql dir")
	}
}

func TestNewUnknownType(t *testing.T) {
	if _, err := New(&Conf{Type: "oracle"}); err == nil {
		t.Fatal("expected an error for an unregistered type")
	}
}
