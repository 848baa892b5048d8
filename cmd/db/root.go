package db

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/mongoBridge/client"
	"github.com/ValentinKolb/mongoBridge/cmd/util"
	"github.com/ValentinKolb/mongoBridge/driver/memory"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"github.com/ValentinKolb/mongoBridge/reactor"
)

var (
	notifier *reactor.Queue
	conn     *client.Connection
	engine   *memory.Driver

	// DBCommands represents the db command group
	DBCommands = &cobra.Command{
		Use:                "db",
		Short:              "Perform database operations over the asynchronous bridge",
		PersistentPreRunE:  setupBridge,
		PersistentPostRunE: teardownBridge,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common bridge flags to the db command
	util.SetupBridgeClientFlags(DBCommands)

	// Add subcommands
	DBCommands.AddCommand(queryCmd)
	DBCommands.AddCommand(insertCmd)
	DBCommands.AddCommand(updateCmd)
	DBCommands.AddCommand(removeCmd)
	DBCommands.AddCommand(commandCmd)
	DBCommands.AddCommand(perfTestCmd)
}

// setupBridge starts the storage engine and connects the bridge to it
func setupBridge(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()
	if err := client.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	// Create the storage engine and load its data file (if any)
	engine = memory.NewDriver()
	if path := util.GetDataPath(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}
			if err := engine.Load(data, s); err != nil {
				return fmt.Errorf("loading data file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("reading data file %s: %w", path, err)
		}
	}

	// Connect the bridge; the connect callback is delivered on the
	// notifier context
	notifier = reactor.NewQueue("notifier")
	errCh := make(chan error, 1)
	conn = client.NewConnection(notifier, engine, config.Address, func(connected bool, err error) {
		if !connected {
			errCh <- err
			return
		}
		errCh <- nil
	})

	select {
	case err := <-errCh:
		return err
	case <-time.After(opTimeout()):
		return fmt.Errorf("connecting timed out")
	}
}

// teardownBridge shuts the bridge down and persists the engine state
func teardownBridge(_ *cobra.Command, _ []string) error {
	conn.Close()
	notifier.Close()

	if path := util.GetDataPath(); path != "" {
		s, err := util.GetSerializer()
		if err != nil {
			return err
		}
		data, err := engine.Save(s)
		if err != nil {
			return fmt.Errorf("saving engine state: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing data file %s: %w", path, err)
		}
	}
	return nil
}

func opTimeout() time.Duration {
	return time.Duration(util.GetTimeoutSeconds()) * time.Second
}

// --------------------------------------------------------------------------
// Bridging async operations into the synchronous CLI
// --------------------------------------------------------------------------

// Reactions must be registered before the resolution is processed. The
// submit closure therefore runs on the notifier context itself: the
// resolution is queued behind it, so the registrations inside the closure
// are always in place in time.

type valueOutcome struct {
	result dynval.Value
	err    error
}

// awaitValue starts an operation on the notifier context and blocks until
// it resolves or the configured timeout elapses.
func awaitValue(submit func() *client.DeferredValue) (dynval.Value, error) {
	ch := make(chan valueOutcome, 1)
	notifier.Submit(func() {
		submit().
			OnSuccess(func(result dynval.Value) { ch <- valueOutcome{result: result} }).
			OnFailure(func(err error) { ch <- valueOutcome{err: err} })
	})

	select {
	case o := <-ch:
		return o.result, o.err
	case <-time.After(opTimeout()):
		return dynval.Value{}, fmt.Errorf("operation timed out")
	}
}

// awaitAck is awaitValue for write operations.
func awaitAck(submit func() *client.DeferredAck) error {
	ch := make(chan error, 1)
	notifier.Submit(func() {
		submit().
			OnSuccess(func(client.Ack) { ch <- nil }).
			OnFailure(func(err error) { ch <- err })
	})

	select {
	case err := <-ch:
		return err
	case <-time.After(opTimeout()):
		return fmt.Errorf("operation timed out")
	}
}
