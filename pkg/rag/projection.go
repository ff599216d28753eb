package rag

import (
	"strings"

	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

// SourceBundle carries the section payloads an ingest run works from. Any
// slot may be nil: a failed section fetch leaves its marker absent and must
// not block projection of the others.
type SourceBundle struct {
	Main    *stoloto.MainCategoriesResponse `json:"main"`
	Tabs    *stoloto.TabsResponse           `json:"tabs"`
	Packets *stoloto.PacketsResponse        `json:"packets"`
}

// ProjectBundle extracts catalog records from a bundle. Sub-structures that
// fail required-field checks are skipped silently; projection never errors.
func ProjectBundle(bundle *SourceBundle) []CatalogRecord {
	if bundle == nil {
		return nil
	}

	var records []CatalogRecord

	if bundle.Main != nil {
		for _, datum := range bundle.Main.Data {
			datumMap, ok := asMap(datum)
			if !ok {
				continue
			}
			for _, content := range asList(datumMap["contents"]) {
				contentMap, ok := asMap(content)
				if !ok {
					continue
				}
				item, ok := asMap(contentMap["item"])
				if !ok {
					continue
				}
				for _, contentItem := range asList(item["contents"]) {
					itemMap, ok := asMap(contentItem)
					if !ok {
						continue
					}
					if record, ok := extractLottery(itemMap); ok {
						records = append(records, record)
					}
				}
			}
		}
	}

	if bundle.Packets != nil {
		for _, packet := range bundle.Packets.Packets {
			records = append(records, CatalogRecord{
				Kind: KindPacket,
				Fields: Fields{
					{Key: "name", Value: packet.Name},
					{Key: "price", Value: packet.Price},
					{Key: "description", Value: packet.Description},
					{Key: "bets_count", Value: len(packet.Bets)},
				},
			})
		}
	}

	if bundle.Tabs != nil {
		for _, tab := range bundle.Tabs.Data {
			records = append(records, CatalogRecord{
				Kind: KindActiveDraw,
				Fields: Fields{
					{Key: "lottery_code", Value: strings.ToUpper(tab.LotteryCode)},
					{Key: "draw", Value: tab.Draw},
					{Key: "prize_title", Value: tab.PrizeTitle},
					{Key: "value", Value: tab.Value},
				},
			})
		}
	}

	return records
}

// extractLottery reads one main-category content item. The lottery sub-object
// is required; prize fields are merged in only when present.
func extractLottery(contentItem map[string]interface{}) (CatalogRecord, bool) {
	lottery, ok := asMap(contentItem["lottery"])
	if !ok || len(lottery) == 0 {
		return CatalogRecord{}, false
	}

	fields := Fields{
		{Key: "code", Value: asString(lottery["code"])},
		{Key: "name", Value: asString(lottery["name"])},
		{Key: "lottery_type", Value: asString(lottery["lotteryType"])},
	}

	if v := asString(contentItem["prizeTitle"]); v != "" {
		fields = append(fields, Field{Key: "prize_title", Value: v})
	}
	if v := asString(contentItem["prizeSum"]); v != "" {
		fields = append(fields, Field{Key: "prize_sum", Value: v})
	}
	if v := asString(contentItem["superPrize"]); v != "" {
		fields = append(fields, Field{Key: "super_prize", Value: v})
	}

	return CatalogRecord{Kind: KindLottery, Fields: fields}, true
}

// --- tolerant tree helpers (schema-on-read, not validation) ---

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asList(v interface{}) []interface{} {
	list, _ := v.([]interface{})
	return list
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
