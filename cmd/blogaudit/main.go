package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "audit":
		handleAudit(os.Args[2:])
	case "fetch":
		handleFetch(os.Args[2:])
	case "history":
		handleHistory(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("blogaudit - blog archive auditor and article fetcher")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  blogaudit <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  audit      Walk the blog feed and report articles missing from the local archive")
	fmt.Println("  fetch      Crawl label and search pages and save articles as markdown files")
	fmt.Println("  history    List recorded audit runs")
	fmt.Println("  help       Show this help message")
}
