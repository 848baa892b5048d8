package db

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/mongoBridge/client"
	"github.com/ValentinKolb/mongoBridge/cmd/util"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

var (
	queryCmd = &cobra.Command{
		Use:   "query [collection] [filter]",
		Short: "Queries a collection and prints the matching documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			filter, err := parseValue(args[1])
			if err != nil {
				return err
			}
			result, err := awaitValue(func() *client.DeferredValue {
				return conn.Query(collection, filter)
			})
			if err != nil {
				return err
			}
			fmt.Printf("found %d document(s)\n", result.Len())
			for i := 0; i < result.Len(); i++ {
				out, err := formatValue(result.Index(i))
				if err != nil {
					return err
				}
				fmt.Println(out)
			}
			return nil
		},
	}
	insertCmd = &cobra.Command{
		Use:   "insert [collection] [document...]",
		Short: "Inserts one or more documents into a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			docs, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			if noReply, _ := cmd.Flags().GetBool("no-reply"); noReply {
				conn.InsertNoReply(collection, docs...)
				fmt.Println("insert submitted (no reply requested)")
				return nil
			}
			if err := awaitAck(func() *client.DeferredAck {
				return conn.Insert(collection, docs...)
			}); err != nil {
				return err
			}
			fmt.Println("insert successful")
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [collection] [filter] [document]",
		Short: "Updates the documents matching a filter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			filter, err := parseValue(args[1])
			if err != nil {
				return err
			}
			doc, err := parseValue(args[2])
			if err != nil {
				return err
			}
			upsert, _ := cmd.Flags().GetBool("upsert")
			multi, _ := cmd.Flags().GetBool("multi")
			if noReply, _ := cmd.Flags().GetBool("no-reply"); noReply {
				conn.UpdateNoReply(collection, filter, doc, upsert, multi)
				fmt.Println("update submitted (no reply requested)")
				return nil
			}
			if err := awaitAck(func() *client.DeferredAck {
				return conn.Update(collection, filter, doc, upsert, multi)
			}); err != nil {
				return err
			}
			fmt.Println("update successful")
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [collection] [filter]",
		Short: "Removes the documents matching a filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			filter, err := parseValue(args[1])
			if err != nil {
				return err
			}
			limitToOne, _ := cmd.Flags().GetBool("one")
			if noReply, _ := cmd.Flags().GetBool("no-reply"); noReply {
				conn.RemoveNoReply(collection, filter, limitToOne)
				fmt.Println("remove submitted (no reply requested)")
				return nil
			}
			if err := awaitAck(func() *client.DeferredAck {
				return conn.Remove(collection, filter, limitToOne)
			}); err != nil {
				return err
			}
			fmt.Println("remove successful")
			return nil
		},
	}
	commandCmd = &cobra.Command{
		Use:   "command [database] [command]",
		Short: "Runs a database command and prints the reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := args[0]
			command, err := parseValue(args[1])
			if err != nil {
				return err
			}
			result, err := awaitValue(func() *client.DeferredValue {
				return conn.RunCommand(database, command)
			})
			if err != nil {
				return err
			}
			out, err := formatValue(result)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
)

func init() {
	insertCmd.Flags().Bool("no-reply", false, util.WrapString("Fire and forget: do not wait for the write to be acknowledged"))
	updateCmd.Flags().Bool("no-reply", false, util.WrapString("Fire and forget: do not wait for the write to be acknowledged"))
	removeCmd.Flags().Bool("no-reply", false, util.WrapString("Fire and forget: do not wait for the write to be acknowledged"))

	updateCmd.Flags().Bool("upsert", false, util.WrapString("Insert the document if nothing matches the filter"))
	updateCmd.Flags().Bool("multi", false, util.WrapString("Update all matching documents instead of only the first"))

	removeCmd.Flags().Bool("one", false, util.WrapString("Remove only the first matching document"))
}

// parseValue deserializes a document argument with the configured serializer
func parseValue(arg string) (dynval.Value, error) {
	s, err := util.GetSerializer()
	if err != nil {
		return dynval.Value{}, err
	}
	var v dynval.Value
	if err := s.Deserialize([]byte(arg), &v); err != nil {
		return dynval.Value{}, fmt.Errorf("invalid document %q: %w", arg, err)
	}
	return v, nil
}

func parseValues(args []string) ([]dynval.Value, error) {
	values := make([]dynval.Value, 0, len(args))
	for _, arg := range args {
		v, err := parseValue(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// formatValue serializes a value with the configured serializer
func formatValue(v dynval.Value) (string, error) {
	s, err := util.GetSerializer()
	if err != nil {
		return "", err
	}
	data, err := s.Serialize(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
