package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tabletop-league/scorekeeper/internal/store"
)

func main() {
	chURL := os.Getenv("CLICKHOUSE_URL")
	if chURL == "" {
		chURL = "clickhouse://localhost:9000/scorekeeper"
	}

	ctx := context.Background()
	conn, err := store.OpenClickHouse(ctx, chURL)
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	defer conn.Close()

	activity := store.NewClickHouseActivityLog(conn)

	days, err := activity.DailyActivity(ctx, 14)
	if err != nil {
		log.Fatalf("Daily query failed: %v", err)
	}
	fmt.Println("Sessions per day (last 14 days):")
	for _, d := range days {
		fmt.Printf("  %s  sessions=%d players=%d\n", d.Day.Format("2006-01-02"), d.Sessions, d.Players)
	}

	games, err := activity.GamePopularity(ctx, 10)
	if err != nil {
		log.Fatalf("Popularity query failed: %v", err)
	}
	fmt.Println("Most played games:")
	for i, g := range games {
		fmt.Printf("  %2d. %-24s %d\n", i+1, g.GameName, g.Sessions)
	}
}
