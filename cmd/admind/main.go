package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "admind",
	Short: "admind — AI Ignite admin console backend",
	Long:  "admind is the backend for the AI Ignite hackathon admin console: admin-gated APIs for teams, mentors, mentoring session bookings with meeting-link notification fan-out, announcements, timeline, live sessions and solution shortlisting.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/admind.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
