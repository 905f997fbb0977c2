package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/vending-fleet/internal/redissvc"
)

var (
	alertFrom        = os.Getenv("ALERT_FROM")  // sender email
	alertTo          = os.Getenv("ALERT_TO")    // restocking staff list
	smtpServer       = os.Getenv("SMTP_SERVER") // smtp.example.com
	smtpPort         = os.Getenv("SMTP_PORT")   // e.g., 587
	smtpUser         = os.Getenv("SMTP_USER")
	smtpPassword     = os.Getenv("SMTP_PASS")
	smtpAuthDisabled = os.Getenv("SMTP_AUTH_DISABLED")

	rdb *redis.Client
	ctx context.Context
)

func SetRedisService(rs *redissvc.RedisService) {
	rdb = rs.Rdb()
	ctx = rs.Ctx()
}

// SoldOutEntry records one slot running dry.
type SoldOutEntry struct {
	MachineID int       `json:"machine_id"`
	Product   string    `json:"product"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Time      time.Time `json:"time"`
}

const DailySoldOutLogKey = "restock:soldout:daily"

// LogSoldOut appends a sold-out event to the daily log. No-op when redis
// is not wired (tests, degraded mode).
func LogSoldOut(machineID int, product string, row, col int) {
	if rdb == nil {
		return
	}
	entry := SoldOutEntry{
		MachineID: machineID,
		Product:   product,
		Row:       row,
		Col:       col,
		Time:      time.Now(),
	}
	data, _ := json.Marshal(entry)
	if err := rdb.RPush(ctx, DailySoldOutLogKey, data).Err(); err != nil {
		log.Printf("failed to log sold-out event: %v", err)
	}
}

// StartDailyRestockSummary emails the day's sold-out slots to the
// restocking staff shortly before midnight.
func StartDailyRestockSummary(interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		SendDailyRestockSummary()
	}
}

func SendDailyRestockSummary() {
	entries, err := rdb.LRange(ctx, DailySoldOutLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = rdb.Del(ctx, DailySoldOutLogKey).Err() // clear after reading

	var events []SoldOutEntry
	machineCounts := make(map[int]int)
	productCounts := make(map[string]int)

	for _, item := range entries {
		var entry SoldOutEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			events = append(events, entry)
			machineCounts[entry.MachineID]++
			productCounts[entry.Product]++
		}
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily Restock Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Slots sold out today: <strong>%d</strong></p>", len(events)))

	sb.WriteString("<h3>By Machine</h3><ul>")
	for machineID, count := range machineCounts {
		sb.WriteString(fmt.Sprintf("<li>machine %d: %d</li>", machineID, count))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>By Product</h3><ul>")
	for product, count := range productCounts {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", product, count))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Full Log</h3><ul>")
	for _, entry := range events {
		sb.WriteString(fmt.Sprintf("<li>machine %d slot (%d,%d): <b>%s</b> at %s</li>",
			entry.MachineID, entry.Row, entry.Col, entry.Product, entry.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")
	subject := "Daily Restock Report"

	msg := strings.Join([]string{
		"From: " + alertFrom,
		"To: " + alertTo,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		sb.String(),
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
	auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)

	if smtpAuthDisabled != "" {
		auth = nil
	}

	go func() {
		err = smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg))
		if err != nil {
			log.Printf("❌ Failed to send email: %v\n", err)
		} else {
			log.Println("📬 Daily restock summary sent via SMTP.")
		}
	}()
}
