package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/funnytourism/tourprice/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "seed-catalog",
		Description: "Seed catalog items and agents from a JSON file",
		Run:         internal.SeedCatalog,
	},
	{
		Name:        "generate-token",
		Description: "Generate a staff or agent bearer token",
		Run:         internal.GenerateToken,
	},
	{
		Name:        "print-tiers",
		Description: "Print the normalized tier tables of an item",
		Run:         internal.PrintTiers,
	},
}

func main() {
	var (
		listCommands bool
		cmdName      string
		catalogFile  string
		itemID       string
		userID       string
		agentID      string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&catalogFile, "catalog-file", "", "Path to catalog JSON file")
	flag.StringVar(&itemID, "item-id", "", "Item ID for pricing operations")
	flag.StringVar(&userID, "user-id", "", "User ID for token generation")
	flag.StringVar(&agentID, "agent-id", "", "Agent ID for token generation")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	if catalogFile != "" {
		os.Setenv("CATALOG_FILE", catalogFile)
	}
	if itemID != "" {
		os.Setenv("ITEM_ID", itemID)
	}
	if userID != "" {
		os.Setenv("USER_ID", userID)
	}
	if agentID != "" {
		os.Setenv("AGENT_ID", agentID)
	}

	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
