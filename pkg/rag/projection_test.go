package rag

import (
	"testing"

	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

// lotteryItem builds one main-categories content item around a lottery object.
func lotteryItem(lottery map[string]interface{}, extra map[string]interface{}) interface{} {
	item := map[string]interface{}{}
	if lottery != nil {
		item["lottery"] = lottery
	}
	for k, v := range extra {
		item[k] = v
	}
	return map[string]interface{}{
		"contents": []interface{}{
			map[string]interface{}{
				"item": map[string]interface{}{
					"contents": []interface{}{item},
				},
			},
		},
	}
}

func TestProjectBundleNilAndEmpty(t *testing.T) {
	if got := ProjectBundle(nil); got != nil {
		t.Errorf("ProjectBundle(nil) = %v, want nil", got)
	}
	if got := ProjectBundle(&SourceBundle{}); len(got) != 0 {
		t.Errorf("ProjectBundle(empty) yielded %d records, want 0", len(got))
	}
}

func TestProjectBundleLotteries(t *testing.T) {
	bundle := &SourceBundle{
		Main: &stoloto.MainCategoriesResponse{
			Data: []interface{}{
				lotteryItem(map[string]interface{}{
					"code":        "ruslotto",
					"name":        "Русское лото",
					"lotteryType": "BINGO",
				}, map[string]interface{}{
					"prizeTitle": "Суперприз",
					"prizeSum":   "600 000 000",
				}),
				// item without its lottery object is skipped
				lotteryItem(nil, map[string]interface{}{"prizeTitle": "orphan"}),
				// non-object datum is skipped silently
				"garbage",
			},
		},
	}

	records := ProjectBundle(bundle)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	record := records[0]
	if record.Kind != KindLottery {
		t.Errorf("Kind = %q, want %q", record.Kind, KindLottery)
	}
	if got := record.Fields.Value("code"); got != "ruslotto" {
		t.Errorf("code = %v, want ruslotto", got)
	}
	if got := record.Fields.Value("prize_sum"); got != "600 000 000" {
		t.Errorf("prize_sum = %v, want 600 000 000", got)
	}
	if got := record.Fields.Value("super_prize"); got != nil {
		t.Errorf("super_prize = %v, want nil when absent", got)
	}
}

func TestProjectBundlePackets(t *testing.T) {
	bundle := &SourceBundle{
		Packets: &stoloto.PacketsResponse{
			Packets: []stoloto.Packet{
				{
					Name:        "Пакет Удача",
					Price:       500,
					Description: "5 билетов разных лотерей",
					Bets:        []stoloto.Bet{{Game: "ruslotto"}, {Game: "4x20"}},
				},
			},
		},
	}

	records := ProjectBundle(bundle)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	record := records[0]
	if record.Kind != KindPacket {
		t.Errorf("Kind = %q, want %q", record.Kind, KindPacket)
	}
	if got := record.Fields.Value("price"); got != 500 {
		t.Errorf("price = %v, want 500", got)
	}
	if got := record.Fields.Value("bets_count"); got != 2 {
		t.Errorf("bets_count = %v, want 2", got)
	}
}

func TestProjectBundleTabsUppercasesCode(t *testing.T) {
	bundle := &SourceBundle{
		Tabs: &stoloto.TabsResponse{
			Data: []stoloto.Tab{
				{LotteryCode: "ruslotto", Draw: 1520, PrizeTitle: "Суперприз", Value: "1 000 000"},
			},
		},
	}

	records := ProjectBundle(bundle)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	record := records[0]
	if record.Kind != KindActiveDraw {
		t.Errorf("Kind = %q, want %q", record.Kind, KindActiveDraw)
	}
	if got := record.Fields.Value("lottery_code"); got != "RUSLOTTO" {
		t.Errorf("lottery_code = %v, want RUSLOTTO", got)
	}
}

func TestProjectBundleCombinesAllSections(t *testing.T) {
	bundle := &SourceBundle{
		Main: &stoloto.MainCategoriesResponse{
			Data: []interface{}{
				lotteryItem(map[string]interface{}{"code": "4x20", "name": "4 из 20"}, nil),
			},
		},
		Packets: &stoloto.PacketsResponse{Packets: []stoloto.Packet{{Name: "Пакет"}}},
		Tabs:    &stoloto.TabsResponse{Data: []stoloto.Tab{{LotteryCode: "top3"}}},
	}

	records := ProjectBundle(bundle)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// lotteries first, then packets, then active draws
	wantKinds := []Kind{KindLottery, KindPacket, KindActiveDraw}
	for i, want := range wantKinds {
		if records[i].Kind != want {
			t.Errorf("records[%d].Kind = %q, want %q", i, records[i].Kind, want)
		}
	}
}
