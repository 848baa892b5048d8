package client

import (
	"errors"

	"github.com/ValentinKolb/mongoBridge/driver"
	"github.com/ValentinKolb/mongoBridge/lib/codec"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"github.com/ValentinKolb/mongoBridge/reactor"
)

// DeferredValue is the deferred type of operations that deliver a result
// document (query, runCommand).
type DeferredValue = Deferred[dynval.Value]

// DeferredAck is the deferred type of write operations; their success
// reaction carries no payload.
type DeferredAck = Deferred[Ack]

// ConnectCallback is executed when the connection is established or an
// error occurred.
type ConnectCallback func(connected bool, err error)

// errConnectionLost is the generic failure for a driver signaling a
// dropped connection without an error (nil cursor sentinel).
var errConnectionLost = errors.New("connection lost")

// --------------------------------------------------------------------------
// Connection Definition
// --------------------------------------------------------------------------

// Connection is an asynchronous connection to a database server. All
// blocking driver calls run on a dedicated worker context owned by the
// Connection; all caller-visible callbacks run on the notifier context the
// caller handed in. The caller-facing API never blocks.
//
// The driver handle is touched exclusively from the worker context - that
// single-threading is what makes locking around the driver unnecessary.
type Connection struct {
	notifier reactor.ISerialExecutor
	worker   *reactor.Queue
	drv      driver.IDriver
	address  string
}

// NewConnection creates a connection and asynchronously establishes it.
//
// The hostname may be postfixed with a colon, followed by the port number
// to connect to. If no port number is given, the default port of 27017 is
// assumed instead. A malformed address surfaces as a connect failure
// through the callback, never as a panic.
//
// The callback (may be nil) is delivered on the notifier context once the
// connection attempt finished.
func NewConnection(notifier reactor.ISerialExecutor, drv driver.IDriver, host string, callback ConnectCallback) *Connection {
	c := &Connection{
		notifier: notifier,
		worker:   reactor.NewQueue("worker"),
		drv:      drv,
	}

	countSubmitted("connect")

	address, err := ParseAddress(host)
	if err != nil {
		countFailed("connect")
		c.notify(func() {
			if callback != nil {
				callback(false, err)
			}
		})
		return c
	}
	c.address = address

	c.worker.Submit(func() {
		if err := c.drv.Connect(address); err != nil {
			countFailed("connect")
			Logger.Warningf("connect to %s failed: %v", address, err)
			c.notify(func() {
				if callback != nil {
					callback(false, err)
				}
			})
			return
		}
		countSucceeded("connect")
		Logger.Infof("connected to %s", address)
		c.notify(func() {
			if callback != nil {
				callback(true, nil)
			}
		})
	})

	return c
}

// Connected reports through the callback whether the connection is alive.
// The check runs on the worker (behind all operations submitted before
// it), the callback on the notifier.
func (c *Connection) Connected(callback func(connected bool)) {
	c.worker.Submit(func() {
		ok := !c.drv.IsFailed()
		c.notify(func() {
			callback(ok)
		})
	})
}

// Close shuts the connection down after all already submitted operations
// have run. It returns once the worker has drained.
func (c *Connection) Close() {
	c.worker.Submit(func() {
		if err := c.drv.Close(); err != nil {
			Logger.Warningf("closing driver for %s: %v", c.address, err)
		}
	})
	c.worker.Close()
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// Query runs a filter against a collection. On success the Deferred
// carries a sequence of the matching documents, in cursor order.
func (c *Connection) Query(collection string, filter dynval.Value) *DeferredValue {
	d := newDeferred[dynval.Value]()
	countSubmitted("query")

	wireFilter, err := codec.Encode(filter)
	if err != nil {
		c.failValue(d, "query", err)
		return d
	}

	c.worker.Submit(func() {
		cursor, err := c.drv.Query(collection, wireFilter)
		if err != nil {
			c.failValue(d, "query", err)
			return
		}
		if cursor == nil {
			// the driver's sentinel for a dropped connection
			c.failValue(d, "query", errConnectionLost)
			return
		}

		results := make([]dynval.Value, 0)
		for cursor.More() {
			results = append(results, codec.Decode(cursor.Next()))
		}
		c.succeedValue(d, "query", dynval.Sequence(results...))
	})

	return d
}

// RunCommand executes a database command. A reply with ok != 1 resolves
// the Deferred as a failure carrying the reply's error text; any other
// reply is delivered as the success payload.
func (c *Connection) RunCommand(database string, command dynval.Value) *DeferredValue {
	d := newDeferred[dynval.Value]()
	countSubmitted("command")

	wireCmd, err := codec.Encode(command)
	if err != nil {
		c.failValue(d, "command", err)
		return d
	}

	c.worker.Submit(func() {
		reply, err := c.drv.RunCommand(database, wireCmd)
		if err != nil {
			c.failValue(d, "command", err)
			return
		}

		result := codec.Decode(reply)
		if msg, failed := commandError(result); failed {
			c.failValue(d, "command", errors.New(msg))
			return
		}
		c.succeedValue(d, "command", result)
	})

	return d
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Insert stores one or more documents in a collection.
func (c *Connection) Insert(collection string, docs ...dynval.Value) *DeferredAck {
	d := newDeferred[Ack]()
	wireDocs, err := encodeAll(docs)
	if err != nil {
		countSubmitted("insert")
		c.failAck(d, "insert", err)
		return d
	}
	c.scheduleWrite("insert", d, func(drv driver.IDriver) error {
		return drv.Insert(collection, wireDocs...)
	})
	return d
}

// InsertNoReply is the fire-and-forget variant of Insert: no Deferred, no
// status round trip, and no error ever reaches the caller context.
func (c *Connection) InsertNoReply(collection string, docs ...dynval.Value) {
	wireDocs, err := encodeAll(docs)
	if err != nil {
		countSubmitted("insert")
		countFailed("insert")
		Logger.Debugf("insert without reply dropped: %v", err)
		return
	}
	c.scheduleWrite("insert", nil, func(drv driver.IDriver) error {
		return drv.Insert(collection, wireDocs...)
	})
}

// Update modifies the documents matching filter. With upsert the document
// is inserted when nothing matches; with multi all matches are updated
// instead of only the first.
func (c *Connection) Update(collection string, filter, doc dynval.Value, upsert, multi bool) *DeferredAck {
	d := newDeferred[Ack]()
	wireFilter, wireDoc, err := encodePair(filter, doc)
	if err != nil {
		countSubmitted("update")
		c.failAck(d, "update", err)
		return d
	}
	c.scheduleWrite("update", d, func(drv driver.IDriver) error {
		return drv.Update(collection, wireFilter, wireDoc, upsert, multi)
	})
	return d
}

// UpdateNoReply is the fire-and-forget variant of Update.
func (c *Connection) UpdateNoReply(collection string, filter, doc dynval.Value, upsert, multi bool) {
	wireFilter, wireDoc, err := encodePair(filter, doc)
	if err != nil {
		countSubmitted("update")
		countFailed("update")
		Logger.Debugf("update without reply dropped: %v", err)
		return
	}
	c.scheduleWrite("update", nil, func(drv driver.IDriver) error {
		return drv.Update(collection, wireFilter, wireDoc, upsert, multi)
	})
}

// Remove deletes the documents matching filter, or only the first match
// when limitToOne is set.
func (c *Connection) Remove(collection string, filter dynval.Value, limitToOne bool) *DeferredAck {
	d := newDeferred[Ack]()
	wireFilter, err := codec.Encode(filter)
	if err != nil {
		countSubmitted("remove")
		c.failAck(d, "remove", err)
		return d
	}
	c.scheduleWrite("remove", d, func(drv driver.IDriver) error {
		return drv.Remove(collection, wireFilter, limitToOne)
	})
	return d
}

// RemoveNoReply is the fire-and-forget variant of Remove.
func (c *Connection) RemoveNoReply(collection string, filter dynval.Value, limitToOne bool) {
	wireFilter, err := codec.Encode(filter)
	if err != nil {
		countSubmitted("remove")
		countFailed("remove")
		Logger.Debugf("remove without reply dropped: %v", err)
		return
	}
	c.scheduleWrite("remove", nil, func(drv driver.IDriver) error {
		return drv.Remove(collection, wireFilter, limitToOne)
	})
}

// --------------------------------------------------------------------------
// Canonical Scheduling Helpers
// --------------------------------------------------------------------------

// scheduleWrite is the single implementation behind every write variant.
// With a nil Deferred the write is fire-and-forget: driver errors are
// logged and swallowed, and the status round trip is always skipped.
func (c *Connection) scheduleWrite(kind string, d *DeferredAck, call func(drv driver.IDriver) error) {
	countSubmitted(kind)

	c.worker.Submit(func() {
		if err := call(c.drv); err != nil {
			countFailed(kind)
			if d == nil {
				Logger.Debugf("%s without reply failed: %v", kind, err)
				return
			}
			c.notify(func() { d.resolveFailure(err) })
			return
		}

		if d == nil {
			countSucceeded(kind)
			return
		}

		if !d.requiresStatus() {
			// nobody observes the outcome, save the round trip for the
			// last-error fetch
			countSucceeded(kind)
			c.notify(func() { d.resolveComplete() })
			return
		}

		if lastErr := c.drv.GetLastError(); lastErr != "" {
			countFailed(kind)
			c.notify(func() { d.resolveFailure(errors.New(lastErr)) })
			return
		}

		countSucceeded(kind)
		c.notify(func() { d.resolveSuccess(Ack{}) })
	})
}

// failValue resolves a value Deferred as failed on the notifier.
func (c *Connection) failValue(d *DeferredValue, kind string, err error) {
	countFailed(kind)
	c.notify(func() { d.resolveFailure(err) })
}

// succeedValue resolves a value Deferred with a result on the notifier.
func (c *Connection) succeedValue(d *DeferredValue, kind string, result dynval.Value) {
	countSucceeded(kind)
	c.notify(func() { d.resolveSuccess(result) })
}

// failAck resolves an ack Deferred as failed on the notifier.
func (c *Connection) failAck(d *DeferredAck, kind string, err error) {
	countFailed(kind)
	c.notify(func() { d.resolveFailure(err) })
}

// notify schedules a resolution on the notifier context.
func (c *Connection) notify(fn func()) {
	if !c.notifier.Submit(fn) {
		Logger.Warningf("notifier context for %s is shut down, dropping notification", c.address)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// encodeAll encodes a batch of documents, failing on the first error.
func encodeAll(docs []dynval.Value) ([]driver.Document, error) {
	wireDocs := make([]driver.Document, 0, len(docs))
	for _, doc := range docs {
		wireDoc, err := codec.Encode(doc)
		if err != nil {
			return nil, err
		}
		wireDocs = append(wireDocs, wireDoc)
	}
	return wireDocs, nil
}

// encodePair encodes a filter/document pair.
func encodePair(filter, doc dynval.Value) (driver.Document, driver.Document, error) {
	wireFilter, err := codec.Encode(filter)
	if err != nil {
		return driver.Document{}, driver.Document{}, err
	}
	wireDoc, err := codec.Encode(doc)
	if err != nil {
		return driver.Document{}, driver.Document{}, err
	}
	return wireFilter, wireDoc, nil
}

// commandError inspects a decoded command reply. It returns the error text
// and true when the reply signals failure (ok present and not 1).
func commandError(reply dynval.Value) (string, bool) {
	okVal, found := reply.Get("ok")
	if !found {
		return "", false
	}

	failed := false
	switch okVal.Kind() {
	case dynval.KindInt:
		failed = okVal.Int() != 1
	case dynval.KindDouble:
		failed = okVal.Double() != 1
	case dynval.KindBool:
		failed = !okVal.Bool()
	}
	if !failed {
		return "", false
	}

	for _, key := range []string{"errmsg", "error"} {
		if v, ok := reply.Get(key); ok && v.Kind() == dynval.KindString && v.Str() != "" {
			return v.Str(), true
		}
	}
	return "command failed", true
}
