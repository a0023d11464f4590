// Command burrow-demo exercises a Client end to end against the in-process
// memory backend: it creates a few messages, lists them back, updates one,
// and deletes another, printing each callback as it fires.
//
// Run with: go run ./cmd/burrow-demo/
package main

import (
	"flag"
	"fmt"
	"os"

	burrow "github.com/burrowdb/burrow-go"
	_ "github.com/burrowdb/burrow-go/memory"
)

func main() {
	account := flag.String("account", "demo-account", "account name to operate on")
	queue := flag.String("queue", "demo-queue", "queue name to operate on")
	flag.Parse()

	if err := run(*account, *queue); err != nil {
		fmt.Fprintln(os.Stderr, "burrow-demo:", err)
		os.Exit(1)
	}
}

func run(account, queue string) error {
	client, err := burrow.NewClient("memory",
		burrow.WithOptions(burrow.OptAutoProcess),
		burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
			fmt.Printf("message: id=%s body=%q ttl=%s\n", id, body, attrs.TTL())
		}),
		burrow.WithQueueFunc(func(name string) {
			fmt.Printf("queue: %s\n", name)
		}),
		burrow.WithAccountFunc(func(name string) {
			fmt.Printf("account: %s\n", name)
		}),
		burrow.WithLogFunc(func(level burrow.Level, message string) {
			fmt.Printf("log[%s]: %s\n", level, message)
		}),
	)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	fmt.Println("--- creating messages ---")
	for i, body := range []string{"first", "second", "third"} {
		id := fmt.Sprintf("msg-%d", i+1)
		if err := client.CreateMessage(account, queue, id, []byte(body), nil); err != nil {
			return fmt.Errorf("creating %s: %w", id, err)
		}
	}

	fmt.Println("--- listing accounts and queues ---")
	if err := client.GetAccounts(nil); err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	if err := client.GetQueues(account, nil); err != nil {
		return fmt.Errorf("listing queues: %w", err)
	}

	fmt.Println("--- listing messages ---")
	if err := client.GetMessages(account, queue, nil); err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}

	fmt.Println("--- updating msg-2 ---")
	attrs := burrow.NewAttributes()
	attrs.SetHide(0)
	if err := client.UpdateMessage(account, queue, "msg-2", attrs, nil); err != nil {
		return fmt.Errorf("updating msg-2: %w", err)
	}

	fmt.Println("--- deleting msg-1 ---")
	if err := client.DeleteMessage(account, queue, "msg-1", nil); err != nil {
		return fmt.Errorf("deleting msg-1: %w", err)
	}

	fmt.Println("--- final state ---")
	if err := client.GetMessages(account, queue, nil); err != nil {
		return fmt.Errorf("final listing: %w", err)
	}

	return nil
}
