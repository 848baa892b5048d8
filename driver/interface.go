package driver

// --------------------------------------------------------------------------
// Cursor Interface
// --------------------------------------------------------------------------

// ICursor iterates over the results of a query. The cursor contract is the
// blocking driver's: More() may block while fetching the next batch.
type ICursor interface {
	// More reports whether another result document is available.
	More() bool
	// Next returns the next result document. It must only be called after
	// More() returned true.
	Next() Document
}

// --------------------------------------------------------------------------
// Driver Interface
// --------------------------------------------------------------------------

// IDriver is the synchronous driver contract the dispatch bridge schedules
// its calls against. Every method may block; the bridge therefore only ever
// invokes them from a connection's worker context.
//
// Error reporting follows the legacy driver: operations return an error for
// driver-level failures, Query additionally signals a dropped connection by
// returning a nil cursor together with a nil error, and write outcomes are
// observed through GetLastError after the write.
type IDriver interface {
	// Connect establishes the connection to the given address. The address
	// has already been validated and carries an explicit port.
	Connect(address string) error

	// IsFailed reports whether the connection is in a failed state.
	IsFailed() bool

	// Query runs a filter against a collection and returns a cursor over
	// the matching documents. A nil cursor with a nil error signals a
	// dropped connection.
	Query(collection string, filter Document) (ICursor, error)

	// Insert stores one or more documents in a collection.
	Insert(collection string, docs ...Document) error

	// Update modifies the documents matching filter. With upsert the
	// document is inserted when nothing matches; with multi all matches
	// are updated instead of only the first.
	Update(collection string, filter, doc Document, upsert, multi bool) error

	// Remove deletes the documents matching filter, or only the first
	// match when limitToOne is set.
	Remove(collection string, filter Document, limitToOne bool) error

	// GetLastError returns the error text of the most recent write on this
	// connection. An empty string means the write succeeded.
	GetLastError() string

	// RunCommand executes a database command and returns the reply
	// document.
	RunCommand(database string, cmd Document) (Document, error)

	// Close releases the connection.
	Close() error
}
