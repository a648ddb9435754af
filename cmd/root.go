package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "acadix-scan",
	Short: "Face recognition attendance for the classroom",
	Long: `Acadix Scan is a CLI application that enrolls student faces from an
IP webcam, trains a local face recognition model over the captured
samples, and marks attendance when a trained face is recognized.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
