package sqldb

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"
)

// RawSQLStore holds SQL statements keyed by "<group>.<name>".
// Statements come from `sql/<name>.sql` (portable, `?` placeholders) or
// `sql/<name>.<dbtype>` (dialect specific, used as-is and preferred).
type RawSQLStore struct {
	mu    sync.RWMutex
	stmts map[string]string
}

func NewRawStore() *RawSQLStore {
	return &RawSQLStore{stmts: make(map[string]string)}
}

func (s *RawSQLStore) Set(key string, rawStmt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stmts[key] = rawStmt
}

func (s *RawSQLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// MustGet panics on a missing key: statement keys are compiled in
func (s *RawSQLStore) MustGet(key string) string {
	stmt, ok := s.Get(key)
	if !ok {
		panic(fmt.Sprintf("sqldb: raw statement %q not loaded", key))
	}
	return stmt
}

func (s *RawSQLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stmts)
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

// GroupFS is a statement group; FS must contain a `sql` directory
type GroupFS struct {
	Group string
	FS    fs.FS
}

// LoadGroups fills store with the statements of groups for dbtype.
func LoadGroups(store *RawSQLStore, dbtype string, groups ...GroupFS) error {
	prefix := PlaceholderPrefixForDBType[dbtype]
	stmtCnt := 0
	for _, group := range groups {
		files, err := fs.ReadDir(group.FS, "sql")
		if err != nil {
			return fmt.Errorf("failed to read `sql` dir of group %q: %w", group.Group, err)
		}
		portable := map[string]string{}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			filename := f.Name()
			ext := path.Ext(filename)
			name := strings.TrimSuffix(filename, ext)
			ext = strings.TrimPrefix(ext, ".")
			if ext != dbtype && ext != "sql" {
				continue
			}
			data, err := fs.ReadFile(group.FS, path.Join("sql", filename))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			key := StoreGroupedStmtKey{Group: group.Group, StmtName: name}.String()
			if ext == dbtype {
				// exact matching file extension -> use it as-is for dialects
				store.Set(key, string(data))
				stmtCnt++
				continue
			}
			portable[key] = string(data)
		}
		for key, stmt := range portable {
			if _, exists := store.Get(key); exists {
				continue
			}
			store.Set(key, ReplaceStaticPlaceholders(stmt, prefix))
			stmtCnt++
		}
	}
	log.Printf("[INFO][SQL] %d raw stmts loaded for %d groups (%s)", stmtCnt, len(groups), dbtype)
	return nil
}
