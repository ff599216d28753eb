package stoloto

// MainCategoriesResponse is the CMS main-categories payload. The tree is
// deep, partially optional and changes shape per category, so it is kept as
// a loose JSON structure and read schema-on-read by the projection layer.
type MainCategoriesResponse struct {
	Data []interface{} `json:"data"`
}

// Tab is one entry of the active draws / promotions strip.
type Tab struct {
	LotteryCode string `json:"lotteryCode"`
	Draw        int    `json:"draw"`
	PrizeTitle  string `json:"prizeTitle,omitempty"`
	Value       string `json:"value,omitempty"`
	Text        string `json:"text,omitempty"`
}

type TabsResponse struct {
	Data []Tab `json:"data"`
}

// Bet is one bet inside a ticket packet.
type Bet struct {
	Game     string `json:"game"`
	Count    int    `json:"count"`
	Draw     int    `json:"draw"`
	Prize    int    `json:"prize"`
	DrawDate int64  `json:"drawDate"`
}

// Packet is a ticket packet with localized fields already cleaned of markup.
type Packet struct {
	Price       int    `json:"price"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Bets        []Bet  `json:"bets"`
	ForMain     bool   `json:"forMain"`
}

type PacketsResponse struct {
	Packets []Packet `json:"packets"`
}

// Draw is one archived draw of a lottery.
type Draw struct {
	Id                 int      `json:"id"`
	Number             int      `json:"number"`
	Date               string   `json:"date"`
	Status             string   `json:"status"`
	Completed          bool     `json:"completed"`
	SuperPrize         int64    `json:"superPrize"`
	Prize              int64    `json:"prize"`
	TicketsCount       int      `json:"ticketsCount"`
	BetsCount          int      `json:"betsCount"`
	WinningCombination []string `json:"winningCombination"`
}

type DrawDetailsResponse struct {
	Draws   []Draw `json:"draws"`
	HasMore bool   `json:"hasMore"`
}
