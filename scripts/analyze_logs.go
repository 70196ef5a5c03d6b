package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type logEntry struct {
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogStats struct {
	Lines          int
	Malformed      int
	BySeverity     map[string]int
	LoginSuccess   int
	LoginFailures  int
	EmailsVerified int
	OrdersCreated  int
	OrdersPaid     int
	Refunds        int
	RefundFailures int
	Deliveries     int
	Confirmations  int
	PointsRedeemed int
	UserActivities map[string]int
	ErrorPatterns  map[string]int
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	numberRegex = regexp.MustCompile(`\b\d+\b`)
	userRegex   = regexp.MustCompile(`(?i)user (\d+)`)
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "day of the log file to analyze")
	logDir := flag.String("dir", "./logs", "directory holding app-<date>.log files")
	flag.Parse()

	stats := &LogStats{
		BySeverity:     make(map[string]int),
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	logFile := filepath.Join(*logDir, fmt.Sprintf("app-%s.log", *date))
	if err := analyzeLogFile(logFile, stats); err != nil {
		fmt.Printf("Error reading log file %s: %v\n", logFile, err)
		os.Exit(1)
	}

	printReport(logFile, stats)
}

func analyzeLogFile(logFile string, stats *LogStats) error {
	file, err := os.Open(logFile)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.Lines++
		var entry logEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			stats.Malformed++
			continue
		}
		analyzeEntry(entry, stats)
	}
	return scanner.Err()
}

func analyzeEntry(entry logEntry, stats *LogStats) {
	severity := strings.ToUpper(entry.Severity)
	stats.BySeverity[severity]++
	msg := entry.Message

	switch {
	case strings.HasPrefix(msg, "User logged in successfully"):
		stats.LoginSuccess++
	case strings.HasPrefix(msg, "Login attempt failed"):
		stats.LoginFailures++
	case strings.HasPrefix(msg, "Email verified"):
		stats.EmailsVerified++
	case strings.HasPrefix(msg, "Order ") && strings.Contains(msg, " created for user "):
		stats.OrdersCreated++
	case strings.HasPrefix(msg, "Order ") && strings.Contains(msg, " paid via "):
		stats.OrdersPaid++
	case strings.HasPrefix(msg, "Refund ") && strings.Contains(msg, " issued for order "):
		stats.Refunds++
	case strings.HasPrefix(msg, "Refund failed"):
		stats.RefundFailures++
	case strings.HasPrefix(msg, "Delivery ") && strings.Contains(msg, " created for order "):
		stats.Deliveries++
	case strings.Contains(msg, " confirmed by user "):
		stats.Confirmations++
	case strings.Contains(msg, " redeemed ") && strings.Contains(msg, " points for coupon "):
		stats.PointsRedeemed++
	}

	extractUserActivity(msg, stats)
	if severity == "ERROR" {
		stats.ErrorPatterns[errorPattern(msg)]++
	}
}

func extractUserActivity(msg string, stats *LogStats) {
	if email := emailRegex.FindString(msg); email != "" {
		stats.UserActivities[strings.ToLower(email)]++
		return
	}
	if m := userRegex.FindStringSubmatch(msg); m != nil {
		stats.UserActivities["user "+m[1]]++
	}
}

// errorPattern groups messages that differ only in ids, amounts or emails
func errorPattern(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	msg = emailRegex.ReplaceAllString(msg, "<email>")
	return numberRegex.ReplaceAllString(msg, "N")
}

func printReport(logFile string, stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("File:", logFile)
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Printf("Lines: %d (%d not JSON)\n", stats.Lines, stats.Malformed)

	fmt.Println("\n1. Severity:")
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		fmt.Printf("   %s: %d\n", level, stats.BySeverity[level])
	}

	fmt.Println("\n2. Authentication:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Printf("   Emails Verified: %d\n", stats.EmailsVerified)

	fmt.Println("\n3. Orders:")
	fmt.Printf("   Created: %d\n", stats.OrdersCreated)
	fmt.Printf("   Paid: %d\n", stats.OrdersPaid)
	fmt.Printf("   Refunded: %d (failed: %d)\n", stats.Refunds, stats.RefundFailures)
	fmt.Printf("   Deliveries Created: %d\n", stats.Deliveries)
	fmt.Printf("   Receipts Confirmed: %d\n", stats.Confirmations)
	fmt.Printf("   Point Redemptions: %d\n", stats.PointsRedeemed)

	fmt.Println("\n4. Most Active Users:")
	printTop(stats.UserActivities, 5, "activities")

	fmt.Println("\n5. Most Common Errors:")
	printTop(stats.ErrorPatterns, 5, "occurrences")
}

func printTop(counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for k, n := range counts {
		entries = append(entries, entry{k, n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d %s\n", e.key, e.count, unit)
	}
}
