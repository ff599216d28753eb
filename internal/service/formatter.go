package service

import (
	"fmt"
	"strings"

	"github.com/404-t/lotobot-backend/pkg/ai/agent"
)

// FormatResponse renders a router result as user-facing text. Plain string
// content passes through untouched (the common case); a structured search
// result becomes a numbered lottery list.
func FormatResponse(result *agent.QueryResult) string {
	if result == nil {
		return ""
	}

	switch content := result.Content.(type) {
	case string:
		return content
	case []interface{}:
		if result.Action == agent.IntentSearch {
			return formatLotteryList(content)
		}
	case map[string]interface{}:
		for _, key := range []string{"description", "text", "message"} {
			if v, ok := content[key].(string); ok && v != "" {
				return v
			}
		}
	}

	return fmt.Sprintf("%v", result.Content)
}

func formatLotteryList(lotteries []interface{}) string {
	if len(lotteries) == 0 {
		return "К сожалению, не удалось найти подходящие лотереи. Попробуйте уточнить запрос."
	}

	parts := []string{"Вот подходящие лотереи:\n"}
	n := 0
	for _, item := range lotteries {
		lottery, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		n++

		name, _ := lottery["name"].(string)
		if name == "" {
			name = "Неизвестная лотерея"
		}
		parts = append(parts, fmt.Sprintf("\n%d. %s", n, name))

		if price := lottery["price"]; price != nil && price != "" {
			parts = append(parts, fmt.Sprintf("   💰 Цена: %s ₽", formatNumber(price)))
		}
		if prize := lottery["prize"]; prize != nil && prize != "" {
			parts = append(parts, fmt.Sprintf("   🎁 Приз: %s", formatPrize(prize)))
		}
		if freq, _ := lottery["frequency"].(string); freq != "" {
			parts = append(parts, fmt.Sprintf("   ⏰ Частота: %s", freq))
		}
		if speed, _ := lottery["speed"].(string); speed != "" {
			parts = append(parts, fmt.Sprintf("   ⚡ Скорость: %s", speed))
		}
		if desc, _ := lottery["description"].(string); desc != "" {
			parts = append(parts, fmt.Sprintf("   📝 %s", desc))
		}
	}

	return strings.Join(parts, "\n")
}

func formatPrize(prize interface{}) string {
	if v, ok := prize.(float64); ok {
		if v >= 1_000_000 {
			return fmt.Sprintf("%.1f млн ₽", v/1_000_000)
		}
		return formatNumber(v) + " ₽"
	}
	return fmt.Sprintf("%v", prize)
}

// formatNumber prints a JSON number with thousands separated by spaces.
func formatNumber(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	s := fmt.Sprintf("%d", int64(f))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
