package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var (
	ledgerURL   string
	transferURL string
	timeout     time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payrail-cli",
		Short: "Payrail CLI tool",
		Long:  `A command line interface for interacting with the Payrail ledger and transfer APIs.`,
	}

	rootCmd.PersistentFlags().StringVar(&ledgerURL, "ledger-url", "http://localhost:8081", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&transferURL, "transfer-url", "http://localhost:8080", "Base URL of the transfer API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var initialBalance string
	createAccountCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new account",
		Run: func(cmd *cobra.Command, args []string) {
			createAccount(initialBalance)
		},
	}
	createAccountCmd.Flags().StringVar(&initialBalance, "balance", "0", "Initial balance")

	getAccountCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(ledgerURL + "/api/v1/accounts/" + args[0])
		},
	}

	accountCmd.AddCommand(createAccountCmd, getAccountCmd)
	rootCmd.AddCommand(accountCmd)

	// Transfer commands
	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var from, to, amount, idempotencyKey string
	createTransferCmd := &cobra.Command{
		Use:   "create",
		Short: "Initiate a transfer",
		Run: func(cmd *cobra.Command, args []string) {
			createTransfer(from, to, amount, idempotencyKey)
		},
	}
	createTransferCmd.Flags().StringVar(&from, "from", "", "Source account ID")
	createTransferCmd.Flags().StringVar(&to, "to", "", "Destination account ID")
	createTransferCmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	createTransferCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key (generated when empty)")

	getTransferCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Get a transfer by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(transferURL + "/api/v1/transfers/" + args[0])
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries [id]",
		Short: "List ledger entries for a transfer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(ledgerURL + "/api/v1/ledger/transfer/" + args[0] + "/entries")
		},
	}

	transferCmd.AddCommand(createTransferCmd, getTransferCmd, entriesCmd)
	rootCmd.AddCommand(transferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createAccount(balance string) {
	body, _ := json.Marshal(map[string]any{"initial_balance": balance})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(ledgerURL+"/api/v1/accounts/", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func createTransfer(from, to, amount, key string) {
	if key == "" {
		key = ulid.Make().String()
		fmt.Printf("Idempotency-Key: %s\n", key)
	}

	body, _ := json.Marshal(map[string]any{
		"from_account_id": from,
		"to_account_id":   to,
		"amount":          amount,
	})

	req, err := http.NewRequest(http.MethodPost, transferURL+"/api/v1/transfers/", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func getJSON(url string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Printf("Status: %d\n%s\n", resp.StatusCode, string(body))
		return
	}

	fmt.Printf("Status: %d\n%s\n", resp.StatusCode, pretty.String())
}
