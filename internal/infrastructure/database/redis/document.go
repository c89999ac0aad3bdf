package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

var (
	ErrDocumentNotFound    = errors.New(errors.CodeResourceNotFound, "document not found")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "document serialization failed")
)

// DocumentStore keeps one JSON document per Redis hash: every top-level
// field of the document is a hash field holding that field's JSON value.
// Plain (non-JSON) field values written by other tools read back as strings.
type DocumentStore struct {
	client *Client
	logger logging.Logger
}

// NewDocumentStore wraps client.
func NewDocumentStore(client *Client, log logging.Logger) *DocumentStore {
	return &DocumentStore{client: client, logger: logging.OrNop(log)}
}

// Client returns the underlying client.
func (s *DocumentStore) Client() *Client { return s.client }

// Get decodes the document at key into dest.
func (s *DocumentStore) Get(ctx context.Context, key string, dest interface{}) error {
	fields, err := s.Fields(ctx, key)
	if err != nil {
		return err
	}
	raw := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if json.Valid([]byte(v)) {
			raw[k] = json.RawMessage(v)
			continue
		}
		quoted, _ := json.Marshal(v)
		raw[k] = quoted
	}
	data, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(data, dest)
	}
	if err != nil {
		return ErrSerializationFailed.WithDetail("key=" + key).WithCause(err)
	}
	return nil
}

// Fields returns the raw hash of the document at key.
func (s *DocumentStore) Fields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, s.client.Key(key)).Result()
	if err != nil {
		return nil, mapCommandError(err, "read document "+key)
	}
	if len(fields) == 0 {
		return nil, ErrDocumentNotFound.WithDetail("key=" + key)
	}
	return fields, nil
}

// Set replaces the document at key atomically.
func (s *DocumentStore) Set(ctx context.Context, key string, doc interface{}) error {
	values, err := flatten(doc)
	if err != nil {
		return ErrSerializationFailed.WithDetail("key=" + key).WithCause(err)
	}
	full := s.client.Key(key)
	err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, full)
		if len(values) > 0 {
			p.HSet(ctx, full, values...)
		}
		return nil
	})
	if err != nil {
		return mapCommandError(err, "write document "+key)
	}
	s.logger.Debug("document stored", logging.String("key", key), logging.Int("fields", len(values)/2))
	return nil
}

// Update merges fields into the document at key, creating it if needed.
func (s *DocumentStore) Update(ctx context.Context, key string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	values := make([]interface{}, 0, 2*len(fields))
	for _, k := range sortedFieldNames(fields) {
		b, err := json.Marshal(fields[k])
		if err != nil {
			return ErrSerializationFailed.WithDetail("field=" + k).WithCause(err)
		}
		values = append(values, k, string(b))
	}
	if err := s.client.HSet(ctx, s.client.Key(key), values...).Err(); err != nil {
		return mapCommandError(err, "update document "+key)
	}
	return nil
}

// Delete removes the document at key.  Deleting a missing key is not an
// error.
func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.client.Key(key)).Err(); err != nil {
		return mapCommandError(err, "delete document "+key)
	}
	return nil
}

// Keys lists the document keys matching pattern, without the client prefix,
// sorted.
func (s *DocumentStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	prefix := s.client.KeyPrefix()
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+pattern, 100).Result()
		if err != nil {
			return nil, mapCommandError(err, "scan documents")
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(out)
	return out, nil
}

// flatten marshals doc and splits its top-level object into HSet arguments.
func flatten(doc interface{}) ([]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)
	values := make([]interface{}, 0, 2*len(obj))
	for _, k := range names {
		values = append(values, k, string(obj[k]))
	}
	return values, nil
}

func sortedFieldNames(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fieldString unquotes a JSON string field and returns other values as-is.
func fieldString(v string) string {
	var s string
	if strings.HasPrefix(v, `"`) && json.Unmarshal([]byte(v), &s) == nil {
		return s
	}
	return v
}

func mapCommandError(err error, op string) error {
	if stderrors.Is(err, ErrClientClosed) {
		return err
	}
	return errors.Wrap(err, errors.CodeDatabaseError, op)
}

//Personal.AI order the ending
