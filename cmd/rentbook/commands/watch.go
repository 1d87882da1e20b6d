package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rentbook/rentbook/internal/printer"
	"github.com/rentbook/rentbook/pkg/recordstore"
)

var watchCmd = &cobra.Command{
	Use:   "watch RECORD_KEY",
	Short: "Stream changes to a record collection",
	Long: `Subscribe to a record collection and print a line for every change
made by another rentbook process in the same namespace. Changes made by
this process are not echoed back. Stop with Ctrl-C.

Valid keys: ` + strings.Join(recordstore.AllKeys(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	key := args[0]

	valid := false
	for _, k := range recordstore.AllKeys() {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return printer.Error(
			fmt.Sprintf("unknown record key %q", key),
			"",
			[]string{"Valid keys: " + strings.Join(recordstore.AllKeys(), ", ")},
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	k, cleanup, err := openKeeper(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sub, err := k.Subscribe(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %q: %w", key, err)
	}
	defer sub.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printer.Step("watching %q; Ctrl-C to stop\n", key)

	for {
		select {
		case <-sigCh:
			printer.Info("\nstopped\n")
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if len(ev.Value) == 0 {
				printer.Printf("%s cleared by %s\n", ev.Key, ev.Origin)
				continue
			}
			printer.Printf("%s changed by %s (%d bytes)\n", ev.Key, ev.Origin, len(ev.Value))
		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			printer.Warning("subscription error: %v\n", err)
		}
	}
}
