// Package main provides the entry point for the Career Weave HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerweave",
	Short: "Career Weave HTTP API Server",
	Long:  "Career Weave generates tailored resumes, cover letters, and interview preparation from a career profile and a job posting URL via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
