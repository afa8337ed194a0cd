package main

import (
	"log"
)

// @title Workout Tracker API
// @version 1.0
// @description Workouts, exercise muscle classification and performance logs.
// @BasePath /api/v1
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}
