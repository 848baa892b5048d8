package drivertest

import (
	"sync"

	"github.com/ValentinKolb/mongoBridge/driver"
)

// --------------------------------------------------------------------------
// Scriptable Stub Driver
// --------------------------------------------------------------------------

// Driver is a scriptable driver.IDriver for tests. The zero value accepts
// every call and reports success; assign hooks to script behavior. All
// recorded state is guarded by a mutex so tests can inspect it from the
// test goroutine while the bridge worker drives the stub.
type Driver struct {
	mu sync.Mutex

	// hooks, consulted when non-nil
	ConnectFn    func(address string) error
	QueryFn      func(collection string, filter driver.Document) (driver.ICursor, error)
	InsertFn     func(collection string, docs []driver.Document) error
	UpdateFn     func(collection string, filter, doc driver.Document, upsert, multi bool) error
	RemoveFn     func(collection string, filter driver.Document, limitToOne bool) error
	RunCommandFn func(database string, cmd driver.Document) (driver.Document, error)

	// LastError is returned by GetLastError
	LastError string

	// Failed is reported by IsFailed
	Failed bool

	calls          []string
	lastErrorCalls int
	closed         bool
}

var _ driver.IDriver = (*Driver)(nil)

func (d *Driver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

// Calls returns the names of all driver calls so far, in invocation order.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// LastErrorCalls returns how often GetLastError was invoked.
func (d *Driver) LastErrorCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErrorCalls
}

// Closed reports whether Close was invoked.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// --------------------------------------------------------------------------
// driver.IDriver implementation
// --------------------------------------------------------------------------

func (d *Driver) Connect(address string) error {
	d.record("connect")
	if d.ConnectFn != nil {
		return d.ConnectFn(address)
	}
	return nil
}

func (d *Driver) IsFailed() bool {
	d.record("isFailed")
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Failed
}

func (d *Driver) Query(collection string, filter driver.Document) (driver.ICursor, error) {
	d.record("query")
	if d.QueryFn != nil {
		return d.QueryFn(collection, filter)
	}
	return NewCursor(), nil
}

func (d *Driver) Insert(collection string, docs ...driver.Document) error {
	d.record("insert")
	if d.InsertFn != nil {
		return d.InsertFn(collection, docs)
	}
	return nil
}

func (d *Driver) Update(collection string, filter, doc driver.Document, upsert, multi bool) error {
	d.record("update")
	if d.UpdateFn != nil {
		return d.UpdateFn(collection, filter, doc, upsert, multi)
	}
	return nil
}

func (d *Driver) Remove(collection string, filter driver.Document, limitToOne bool) error {
	d.record("remove")
	if d.RemoveFn != nil {
		return d.RemoveFn(collection, filter, limitToOne)
	}
	return nil
}

func (d *Driver) GetLastError() string {
	d.record("getLastError")
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErrorCalls++
	return d.LastError
}

func (d *Driver) RunCommand(database string, cmd driver.Document) (driver.Document, error) {
	d.record("runCommand")
	if d.RunCommandFn != nil {
		return d.RunCommandFn(database, cmd)
	}
	return driver.NewDocument().AppendInt32("ok", 1).Build(), nil
}

func (d *Driver) Close() error {
	d.record("close")
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// --------------------------------------------------------------------------
// Scripted Cursor
// --------------------------------------------------------------------------

// Cursor yields a fixed list of documents.
type Cursor struct {
	docs []driver.Document
	pos  int
}

var _ driver.ICursor = (*Cursor)(nil)

// NewCursor creates a cursor over the given documents.
func NewCursor(docs ...driver.Document) *Cursor {
	return &Cursor{docs: docs}
}

func (c *Cursor) More() bool {
	return c.pos < len(c.docs)
}

func (c *Cursor) Next() driver.Document {
	doc := c.docs[c.pos]
	c.pos++
	return doc
}
