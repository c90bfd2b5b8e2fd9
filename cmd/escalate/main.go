// Command escalate applies the priority escalation rule to every open order once and
// prints the orders it changed. It is the manual counterpart of the scheduled job.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/olekukonko/tablewriter"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "maximum time for the reconciliation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	changes, err := services.NewOrderService(config.GetDB()).Reconcile(ctx)
	if err != nil {
		log.Fatalf("Escalation failed: %v", err)
	}

	if err := printChanges(os.Stdout, changes); err != nil {
		log.Fatalf("Failed to print report: %v", err)
	}
}

// printChanges renders the escalated orders as a table
func printChanges(w io.Writer, changes []services.EscalationChange) error {
	if len(changes) == 0 {
		_, err := fmt.Fprintln(w, "No orders escalated")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Order", "From", "To")
	for _, change := range changes {
		row := []string{
			strconv.FormatUint(uint64(change.OrderID), 10),
			change.OrderNumber,
			string(change.From),
			string(change.To),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d order(s) escalated\n", len(changes))
	return err
}
