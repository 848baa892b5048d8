package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ValentinKolb/mongoBridge/driver"
	"github.com/ValentinKolb/mongoBridge/lib/codec"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"github.com/ValentinKolb/mongoBridge/lib/serializer"
)

var Logger = logger.GetLogger("driver/memory")

// --------------------------------------------------------------------------
// Driver Definition
// --------------------------------------------------------------------------

// Driver is the in-process storage engine. It is safe for concurrent use,
// although the bridge only ever drives it from a single worker context.
type Driver struct {
	collections *xsync.MapOf[string, *collection]

	mu        sync.Mutex
	connected bool
	closed    bool
	lastError string
}

// collection holds the documents of one namespace, in insertion order.
type collection struct {
	mu   sync.RWMutex
	docs []dynval.Value
}

var _ driver.IDriver = (*Driver)(nil)

// NewDriver creates an empty storage engine.
func NewDriver() *Driver {
	return &Driver{
		collections: xsync.NewMapOf[string, *collection](),
	}
}

func (d *Driver) coll(name string) *collection {
	c, _ := d.collections.LoadOrCompute(name, func() *collection {
		return &collection{}
	})
	return c
}

// setLastError records the outcome of the most recent write.
func (d *Driver) setLastError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = msg
}

func (d *Driver) alive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected && !d.closed
}

// --------------------------------------------------------------------------
// driver.IDriver implementation
// --------------------------------------------------------------------------

// Connect marks the engine as connected. The address is accepted verbatim
// since there is no server to reach.
func (d *Driver) Connect(address string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("storage engine is closed")
	}
	d.connected = true
	Logger.Debugf("storage engine connected (address %s ignored)", address)
	return nil
}

func (d *Driver) IsFailed() bool {
	return !d.alive()
}

// Query returns a cursor over all documents matching the filter, in
// insertion order. The nil cursor sentinel signals a dropped connection.
func (d *Driver) Query(name string, filter driver.Document) (driver.ICursor, error) {
	if !d.alive() {
		return nil, nil
	}

	filterVal := codec.Decode(filter)
	c := d.coll(name)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []driver.Document
	for _, doc := range c.docs {
		if !matchesFilter(doc, filterVal) {
			continue
		}
		wireDoc, err := codec.Encode(doc)
		if err != nil {
			return nil, err
		}
		matches = append(matches, wireDoc)
	}
	return &cursor{docs: matches}, nil
}

// Insert stores the documents, generating an _id for any document that
// has none. A duplicate _id is a server-side error reported through
// GetLastError, not through the return value.
func (d *Driver) Insert(name string, docs ...driver.Document) error {
	if !d.alive() {
		return fmt.Errorf("not connected")
	}

	c := d.coll(name)
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, wireDoc := range docs {
		doc := ensureID(codec.Decode(wireDoc))
		if id, ok := doc.Get("_id"); ok && c.containsID(id) {
			d.setLastError(fmt.Sprintf("duplicate _id %s in %s", id, name))
			return nil
		}
		c.docs = append(c.docs, doc)
	}
	d.setLastError("")
	return nil
}

// Update replaces the documents matching filter with doc, keeping each
// match's _id. With upsert the document is inserted when nothing matches;
// with multi all matches are replaced instead of only the first.
func (d *Driver) Update(name string, filter, doc driver.Document, upsert, multi bool) error {
	if !d.alive() {
		return fmt.Errorf("not connected")
	}

	filterVal := codec.Decode(filter)
	docVal := codec.Decode(doc)

	c := d.coll(name)
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := 0
	for i, existing := range c.docs {
		if !matchesFilter(existing, filterVal) {
			continue
		}
		replacement := docVal
		if id, ok := existing.Get("_id"); ok {
			replacement = withID(docVal, id)
		}
		c.docs[i] = replacement
		updated++
		if !multi {
			break
		}
	}

	if updated == 0 && upsert {
		c.docs = append(c.docs, ensureID(docVal))
	}
	d.setLastError("")
	return nil
}

// Remove deletes the documents matching filter, or only the first match
// when limitToOne is set.
func (d *Driver) Remove(name string, filter driver.Document, limitToOne bool) error {
	if !d.alive() {
		return fmt.Errorf("not connected")
	}

	filterVal := codec.Decode(filter)

	c := d.coll(name)
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.docs[:0]
	removed := 0
	for _, doc := range c.docs {
		if matchesFilter(doc, filterVal) && (!limitToOne || removed == 0) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	d.setLastError("")
	return nil
}

func (d *Driver) GetLastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.connected = false
	return nil
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// RunCommand executes a database command. The first field of the command
// document names the command. Supported commands: ping, count, drop,
// listCollections. An unknown command yields an ok:0 reply, not an error.
func (d *Driver) RunCommand(database string, cmd driver.Document) (driver.Document, error) {
	if !d.alive() {
		return driver.Document{}, fmt.Errorf("not connected")
	}
	if cmd.Len() == 0 {
		return errorReply("empty command"), nil
	}

	name := cmd.At(0)
	switch name.Key {
	case "ping":
		return okReply().Build(), nil

	case "count":
		if name.Type != driver.TypeString {
			return errorReply("count expects a collection name"), nil
		}
		c := d.coll(database + "." + name.Str)
		c.mu.RLock()
		n := len(c.docs)
		c.mu.RUnlock()
		return okReply().AppendInt32("n", int32(n)).Build(), nil

	case "drop":
		if name.Type != driver.TypeString {
			return errorReply("drop expects a collection name"), nil
		}
		full := database + "." + name.Str
		if _, found := d.collections.LoadAndDelete(full); !found {
			return errorReply("ns not found"), nil
		}
		return okReply().Build(), nil

	case "listCollections":
		names := d.collectionNames()
		list := driver.NewDocument()
		for i, n := range names {
			list.AppendString(fmt.Sprintf("%d", i), n)
		}
		return okReply().AppendArray("collections", list.Build()).Build(), nil

	default:
		return errorReply(fmt.Sprintf("no such command: %s", name.Key)), nil
	}
}

func okReply() *driver.DocumentBuilder {
	return driver.NewDocument().AppendInt32("ok", 1)
}

func errorReply(msg string) driver.Document {
	return driver.NewDocument().
		AppendInt32("ok", 0).
		AppendString("errmsg", msg).
		Build()
}

func (d *Driver) collectionNames() []string {
	var names []string
	d.collections.Range(func(name string, _ *collection) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// Save serializes the full engine state, one sequence of documents per
// collection, keyed by collection name.
func (d *Driver) Save(s serializer.IValueSerializer) ([]byte, error) {
	var members []dynval.Member
	for _, name := range d.collectionNames() {
		c := d.coll(name)
		c.mu.RLock()
		docs := append([]dynval.Value(nil), c.docs...)
		c.mu.RUnlock()
		members = append(members, dynval.M(name, dynval.Sequence(docs...)))
	}
	return s.Serialize(dynval.Mapping(members...))
}

// Load replaces the engine state with previously saved data.
func (d *Driver) Load(data []byte, s serializer.IValueSerializer) error {
	var state dynval.Value
	if err := s.Deserialize(data, &state); err != nil {
		return fmt.Errorf("loading engine state: %w", err)
	}
	if state.Kind() != dynval.KindMapping {
		return fmt.Errorf("loading engine state: expected a mapping, got %s", state.Kind())
	}

	d.collections.Clear()
	for _, name := range state.Keys() {
		docsVal, _ := state.Get(name)
		if docsVal.Kind() != dynval.KindSequence {
			return fmt.Errorf("loading engine state: collection %q is not a sequence", name)
		}
		c := d.coll(name)
		c.mu.Lock()
		c.docs = c.docs[:0]
		for i := 0; i < docsVal.Len(); i++ {
			c.docs = append(c.docs, docsVal.Index(i))
		}
		c.mu.Unlock()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// matchesFilter reports whether every filter field is present in doc with
// an equal value. An empty filter matches every document; it reaches the
// engine as an empty sequence, because the codec decodes an empty wire
// document through the array heuristic.
func matchesFilter(doc, filter dynval.Value) bool {
	if filter.Len() == 0 {
		return true
	}
	if filter.Kind() != dynval.KindMapping {
		return false
	}
	for _, key := range filter.Keys() {
		want, _ := filter.Get(key)
		got, found := doc.Get(key)
		if !found || !want.Equal(got) {
			return false
		}
	}
	return true
}

// ensureID returns doc with a generated _id field if it has none.
func ensureID(doc dynval.Value) dynval.Value {
	if _, ok := doc.Get("_id"); ok {
		return doc
	}
	return withID(doc, dynval.String(uuid.NewString()))
}

// withID returns doc with its _id field set to id, keeping the _id first.
func withID(doc dynval.Value, id dynval.Value) dynval.Value {
	members := []dynval.Member{dynval.M("_id", id)}
	for _, key := range doc.Keys() {
		if key == "_id" {
			continue
		}
		v, _ := doc.Get(key)
		members = append(members, dynval.M(key, v))
	}
	return dynval.Mapping(members...)
}

func (c *collection) containsID(id dynval.Value) bool {
	for _, doc := range c.docs {
		if existing, ok := doc.Get("_id"); ok && existing.Equal(id) {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Cursor
// --------------------------------------------------------------------------

type cursor struct {
	docs []driver.Document
	pos  int
}

func (c *cursor) More() bool {
	return c.pos < len(c.docs)
}

func (c *cursor) Next() driver.Document {
	doc := c.docs[c.pos]
	c.pos++
	return doc
}
