package valkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/travelql/internal/db"
	"github.com/kailas-cloud/travelql/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const (
	scanCount = 500
	mgetBatch = 100
)

// Store implements db.Store for Valkey servers that carry the JSON module but
// no search over JSON documents. Statements are evaluated client-side over a
// SCAN of the statement's key prefixes.
type Store struct {
	*redis.Store

	// cluster is set when rueidis discovered a cluster: SCAN then runs on
	// every node.
	cluster bool
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg redis.Config) (*Store, error) {
	rs, err := redis.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("valkey: %w", err)
	}
	return &Store{Store: rs, cluster: rs.Client().Mode() == rueidis.ClientModeCluster}, nil
}

// IndexExists always reports true: this backend needs no secondary index.
func (s *Store) IndexExists(context.Context, string) (bool, error) {
	return true, nil
}

// Query scans every key prefix of the statement, loads the documents with
// JSON.MGET and keeps those whose filter fields equal the bound parameters.
// Records keep key-scan order.
func (s *Store) Query(ctx context.Context, stmt *db.Statement) (*db.QueryResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Kind: db.KindQuery, Err: err}
	}
	if len(stmt.KeyPrefixes) == 0 {
		return nil, &db.Error{
			Op:   db.OpScan,
			Kind: db.KindQuery,
			Err:  fmt.Errorf("%w: no key prefixes to scan", db.ErrInvalidStmt),
		}
	}

	limit := stmt.EffectiveLimit()
	res := &db.QueryResult{Records: []db.Record{}}

	for _, prefix := range stmt.KeyPrefixes {
		keys, err := s.scan(ctx, prefix+"*")
		if err != nil {
			return nil, err
		}
		for start := 0; start < len(keys); start += mgetBatch {
			end := min(start+mgetBatch, len(keys))
			docs, err := s.mget(ctx, keys[start:end])
			if err != nil {
				return nil, err
			}
			for i, doc := range docs {
				if doc == nil || !matches(doc, stmt) {
					continue
				}
				res.Total++
				if len(res.Records) < limit {
					res.Records = append(res.Records, project(doc, keys[start+i], stmt))
				}
			}
		}
	}
	return res, nil
}

// scan returns the keys matching pattern. On a cluster every node is scanned
// in address order and keys seen on more than one node are kept once.
func (s *Store) scan(ctx context.Context, pattern string) ([]string, error) {
	if !s.cluster {
		return s.scanNode(ctx, s.Client(), pattern)
	}

	nodes := s.Client().Nodes()
	addrs := make([]string, 0, len(nodes))
	for addr := range nodes {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	var keys []string
	seen := make(map[string]struct{})
	for _, addr := range addrs {
		nodeKeys, err := s.scanNode(ctx, nodes[addr], pattern)
		if err != nil {
			return nil, err
		}
		for _, k := range nodeKeys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// scanNode iterates the keys of one node matching a pattern.
func (s *Store) scanNode(ctx context.Context, node rueidis.Client, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := node.B().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		entry, err := s.doOn(ctx, node, cmd).AsScanEntry()
		if err != nil {
			return nil, redis.WrapErr(db.OpScan, err)
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (s *Store) doOn(ctx context.Context, node rueidis.Client, cmd rueidis.Completed) rueidis.RedisResult {
	ctx, cancel := s.QueryContext(ctx)
	defer cancel()
	return node.Do(ctx, cmd)
}

// mget loads documents for keys; a nil entry means the key vanished between
// SCAN and JSON.MGET. rueidis groups the keys by hash slot on a cluster.
func (s *Store) mget(ctx context.Context, keys []string) ([]db.Record, error) {
	qctx, cancel := s.QueryContext(ctx)
	defer cancel()

	replies, err := rueidis.JsonMGet(s.Client(), qctx, keys, "$")
	if err != nil {
		return nil, redis.WrapErr(db.OpJSONMGet, err)
	}

	docs := make([]db.Record, len(keys))
	for i, key := range keys {
		reply, ok := replies[key]
		if !ok {
			continue
		}
		raw, err := reply.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONMGet, Kind: db.KindQuery, Err: err}
		}
		doc, err := redis.DecodeDocument(raw)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONMGet, Kind: db.KindQuery, Err: fmt.Errorf("key %s: %w", key, err)}
		}
		docs[i] = doc
	}
	return docs, nil
}

// matches reports whether every filter field of doc equals its bound value exactly.
func matches(doc db.Record, stmt *db.Statement) bool {
	for _, f := range stmt.Filters {
		v, ok := scalarText(doc[f.Field])
		if !ok || v != stmt.Params[f.Param] {
			return false
		}
	}
	return true
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// project keeps the selected fields of doc, decoded like FT.SEARCH RETURN values.
func project(doc db.Record, key string, stmt *db.Statement) db.Record {
	rec := make(db.Record, len(stmt.Fields)+1)
	for _, f := range stmt.Fields {
		v, ok := doc[f.Name]
		if !ok || v == nil {
			continue
		}
		raw, isString := v.(string)
		if isString && f.Kind == db.FieldString {
			rec[f.Name] = raw
			continue
		}
		if !isString {
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			raw = string(b)
		}
		if decoded, ok := redis.DecodeValue(f.Kind, raw); ok {
			rec[f.Name] = decoded
		}
	}
	if stmt.KeyField != "" {
		rec[stmt.KeyField] = key
	}
	return rec
}
