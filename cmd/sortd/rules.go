package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortd/sortd/internal/rules"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the built-in classification rules",
		Long: `Show the category set and the keyword rules consulted for ambiguous
files, in the order they are applied.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("Categories:")
			for _, category := range rules.CategoryNames() {
				fmt.Printf("  %s\n", category)
			}

			fmt.Println("\nKeyword rules (first match wins):")
			for _, rule := range rules.KeywordRules() {
				fmt.Printf("  %-14s -> %s\n", rule.Keyword, rule.Category)
			}
		},
	}
}
