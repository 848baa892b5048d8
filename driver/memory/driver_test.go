package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentinKolb/mongoBridge/driver"
	"github.com/ValentinKolb/mongoBridge/lib/codec"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"github.com/ValentinKolb/mongoBridge/lib/serializer"
)

func newConnected(t *testing.T) *Driver {
	t.Helper()
	d := NewDriver()
	require.NoError(t, d.Connect("ignored"))
	return d
}

func mustEncode(t *testing.T, v dynval.Value) driver.Document {
	t.Helper()
	doc, err := codec.Encode(v)
	require.NoError(t, err)
	return doc
}

func queryAll(t *testing.T, d *Driver, name string, filter dynval.Value) []dynval.Value {
	t.Helper()
	cur, err := d.Query(name, mustEncode(t, filter))
	require.NoError(t, err)
	require.NotNil(t, cur)
	var docs []dynval.Value
	for cur.More() {
		docs = append(docs, codec.Decode(cur.Next()))
	}
	return docs
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func TestLifecycle(t *testing.T) {
	d := NewDriver()
	assert.True(t, d.IsFailed())

	require.NoError(t, d.Connect("anything"))
	assert.False(t, d.IsFailed())

	require.NoError(t, d.Close())
	assert.True(t, d.IsFailed())
	assert.Error(t, d.Connect("again"))
}

func TestQueryWithoutConnectionReturnsNilCursor(t *testing.T) {
	d := NewDriver()
	cur, err := d.Query("test.users", driver.Document{})
	assert.NoError(t, err)
	assert.Nil(t, cur)
}

// --------------------------------------------------------------------------
// CRUD
// --------------------------------------------------------------------------

func TestInsertAndQuery(t *testing.T) {
	d := newConnected(t)

	require.NoError(t, d.Insert("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("alice")), dynval.M("age", dynval.Int(30)))),
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("bob")), dynval.M("age", dynval.Int(25)))),
	))
	assert.Empty(t, d.GetLastError())

	docs := queryAll(t, d, "test.users", dynval.Mapping(dynval.M("name", dynval.String("alice"))))
	require.Len(t, docs, 1)
	age, _ := docs[0].Get("age")
	assert.EqualValues(t, 30, age.Int())

	// every stored document carries an _id
	_, hasID := docs[0].Get("_id")
	assert.True(t, hasID)

	all := queryAll(t, d, "test.users", dynval.Mapping())
	assert.Len(t, all, 2)
}

func TestEmptyFilterMatchesAllDocuments(t *testing.T) {
	d := newConnected(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Insert("test.users",
			mustEncode(t, dynval.Mapping(dynval.M("n", dynval.Int(int32(i)))))))
	}

	// an empty mapping crosses the wire as an array-shaped empty document
	// and decodes to an empty sequence; it must still match everything
	emptyFilter := mustEncode(t, dynval.Mapping())
	require.Equal(t, dynval.KindSequence, codec.Decode(emptyFilter).Kind())

	docs := queryAll(t, d, "test.users", dynval.Mapping())
	assert.Len(t, docs, 3)

	// same contract for removes
	require.NoError(t, d.Remove("test.users", emptyFilter, false))
	assert.Empty(t, queryAll(t, d, "test.users", dynval.Mapping()))
}

func TestInsertDuplicateIDReportsLastError(t *testing.T) {
	d := newConnected(t)

	doc := mustEncode(t, dynval.Mapping(dynval.M("_id", dynval.Int(1))))
	require.NoError(t, d.Insert("test.users", doc))
	require.Empty(t, d.GetLastError())

	// same _id again: the call succeeds, the status round trip reports it
	require.NoError(t, d.Insert("test.users", doc))
	assert.NotEmpty(t, d.GetLastError())

	// the next successful write clears the error
	require.NoError(t, d.Insert("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("_id", dynval.Int(2))))))
	assert.Empty(t, d.GetLastError())
}

func TestUpdateReplacesAndKeepsID(t *testing.T) {
	d := newConnected(t)

	require.NoError(t, d.Insert("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("_id", dynval.Int(1)), dynval.M("name", dynval.String("alice"))))))

	require.NoError(t, d.Update("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("alice")))),
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("alicia")))),
		false, false))

	docs := queryAll(t, d, "test.users", dynval.Mapping())
	require.Len(t, docs, 1)
	name, _ := docs[0].Get("name")
	assert.Equal(t, "alicia", name.Str())
	id, _ := docs[0].Get("_id")
	assert.EqualValues(t, 1, id.Int())
}

func TestUpdateMultiAndSingle(t *testing.T) {
	d := newConnected(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Insert("test.users",
			mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")), dynval.M("n", dynval.Int(int32(i)))))))
	}

	// single update only touches the first match
	require.NoError(t, d.Update("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")))),
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("b")))),
		false, false))
	assert.Len(t, queryAll(t, d, "test.users", dynval.Mapping(dynval.M("group", dynval.String("b")))), 1)

	// multi update touches all remaining matches
	require.NoError(t, d.Update("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")))),
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("b")))),
		false, true))
	assert.Len(t, queryAll(t, d, "test.users", dynval.Mapping(dynval.M("group", dynval.String("b")))), 3)
}

func TestUpdateUpsert(t *testing.T) {
	d := newConnected(t)

	require.NoError(t, d.Update("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("carol")))),
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("carol")), dynval.M("age", dynval.Int(40)))),
		true, false))

	docs := queryAll(t, d, "test.users", dynval.Mapping(dynval.M("name", dynval.String("carol"))))
	require.Len(t, docs, 1)
	_, hasID := docs[0].Get("_id")
	assert.True(t, hasID)
}

func TestRemove(t *testing.T) {
	d := newConnected(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Insert("test.users",
			mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")), dynval.M("n", dynval.Int(int32(i)))))))
	}

	// limitToOne removes exactly the first match
	require.NoError(t, d.Remove("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")))), true))
	remaining := queryAll(t, d, "test.users", dynval.Mapping())
	require.Len(t, remaining, 2)
	n, _ := remaining[0].Get("n")
	assert.EqualValues(t, 1, n.Int())

	// unbounded remove clears the rest
	require.NoError(t, d.Remove("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("group", dynval.String("a")))), false))
	assert.Empty(t, queryAll(t, d, "test.users", dynval.Mapping()))
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

func TestCommands(t *testing.T) {
	d := newConnected(t)

	require.NoError(t, d.Insert("test.users",
		mustEncode(t, dynval.Mapping(dynval.M("name", dynval.String("alice"))))))

	t.Run("ping", func(t *testing.T) {
		reply, err := d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("ping", dynval.Int(1)))))
		require.NoError(t, err)
		ok, _ := reply.Lookup("ok")
		assert.EqualValues(t, 1, ok.Int32)
	})

	t.Run("count", func(t *testing.T) {
		reply, err := d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("count", dynval.String("users")))))
		require.NoError(t, err)
		n, found := reply.Lookup("n")
		require.True(t, found)
		assert.EqualValues(t, 1, n.Int32)
	})

	t.Run("listCollections", func(t *testing.T) {
		reply, err := d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("listCollections", dynval.Int(1)))))
		require.NoError(t, err)
		list, found := reply.Lookup("collections")
		require.True(t, found)
		assert.Equal(t, driver.TypeArray, list.Type)
		assert.Equal(t, 1, list.Doc.Len())
	})

	t.Run("drop", func(t *testing.T) {
		reply, err := d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("drop", dynval.String("users")))))
		require.NoError(t, err)
		ok, _ := reply.Lookup("ok")
		assert.EqualValues(t, 1, ok.Int32)

		// dropping again is an error reply
		reply, err = d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("drop", dynval.String("users")))))
		require.NoError(t, err)
		ok, _ = reply.Lookup("ok")
		assert.EqualValues(t, 0, ok.Int32)
	})

	t.Run("unknown command", func(t *testing.T) {
		reply, err := d.RunCommand("test", mustEncode(t, dynval.Mapping(dynval.M("bogus", dynval.Int(1)))))
		require.NoError(t, err)
		ok, _ := reply.Lookup("ok")
		assert.EqualValues(t, 0, ok.Int32)
		msg, found := reply.Lookup("errmsg")
		require.True(t, found)
		assert.Contains(t, msg.Str, "bogus")
	})
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, format := range []string{"JSON", "YAML", "CBOR"} {
		t.Run(format, func(t *testing.T) {
			s, err := serializer.GetSerializer(format)
			require.NoError(t, err)

			d := newConnected(t)
			require.NoError(t, d.Insert("test.users",
				mustEncode(t, dynval.Mapping(dynval.M("_id", dynval.Int(1)), dynval.M("name", dynval.String("alice"))))))
			require.NoError(t, d.Insert("test.tags",
				mustEncode(t, dynval.Mapping(dynval.M("_id", dynval.Int(2)), dynval.M("values", dynval.Sequence(dynval.String("x"), dynval.String("y")))))))

			data, err := d.Save(s)
			require.NoError(t, err)

			restored := newConnected(t)
			require.NoError(t, restored.Load(data, s))

			docs := queryAll(t, restored, "test.users", dynval.Mapping())
			require.Len(t, docs, 1)
			name, _ := docs[0].Get("name")
			assert.Equal(t, "alice", name.Str())

			tags := queryAll(t, restored, "test.tags", dynval.Mapping(dynval.M("_id", dynval.Int(2))))
			require.Len(t, tags, 1)
		})
	}
}

func TestLoadRejectsMalformedState(t *testing.T) {
	s, err := serializer.GetSerializer("JSON")
	require.NoError(t, err)

	d := newConnected(t)
	assert.Error(t, d.Load([]byte("not json"), s))

	// a top-level list is not a valid engine state
	assert.Error(t, d.Load([]byte(`[1,2,3]`), s))
}
