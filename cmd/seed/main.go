package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"ai-concierge-be/internal/config"
	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/repository"
	"ai-concierge-be/pkg/database"
	"ai-concierge-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type seedDocument struct {
	Content        string
	Language       string
	SourceCategory string
	EntityTags     []string
}

// The bilingual facility corpus. Every document names its entity tags so
// the context filter can separate co-located siblings at answer time.
var corpus = []seedDocument{
	// Cafe Kotori (1F)
	{"カフェコトリは1階にあります。営業時間は平日8:00〜20:00、土日祝は9:00〜19:00です。", "ja", "business", []string{"cafe-kotori"}},
	{"カフェコトリのおすすめはブレンドコーヒー(500円)と季節のケーキセット(980円)です。店内はWi-Fi完備です。", "ja", "business", []string{"cafe-kotori"}},
	{"Cafe Kotori is on the 1st floor. Open 8:00-20:00 on weekdays and 9:00-19:00 on weekends and holidays.", "en", "business", []string{"cafe-kotori"}},
	{"Cafe Kotori serves blend coffee (500 yen) and a seasonal cake set (980 yen). Free Wi-Fi is available inside.", "en", "business", []string{"cafe-kotori"}},

	// Cafe Yamane (3F)
	{"喫茶ヤマネは3階にあります。営業時間は毎日10:00〜18:00です。水曜定休です。", "ja", "business", []string{"cafe-yamane"}},
	{"喫茶ヤマネは昔ながらの喫茶店で、ナポリタン(850円)とクリームソーダ(600円)が人気です。", "ja", "business", []string{"cafe-yamane"}},
	{"Kissa Yamane is on the 3rd floor. Open daily 10:00-18:00, closed on Wednesdays.", "en", "business", []string{"cafe-yamane"}},
	{"Kissa Yamane is an old-style coffee house known for its napolitan pasta (850 yen) and cream soda (600 yen).", "en", "business", []string{"cafe-yamane"}},

	// Meeting room B1 (free)
	{"地下1階の会議室は予約不要で無料でご利用いただけます。利用時間は9:00〜21:00です。", "ja", "facility", []string{"meeting-room-b1", "free"}},
	{"地下1階の会議室は12名まで収容できます。ホワイトボードとモニターを備えています。", "ja", "facility", []string{"meeting-room-b1", "free"}},
	{"The meeting room on basement floor 1 is free of charge and needs no reservation. Available 9:00-21:00.", "en", "facility", []string{"meeting-room-b1", "free"}},
	{"The basement meeting room seats up to 12 people and has a whiteboard and a monitor.", "en", "facility", []string{"meeting-room-b1", "free"}},

	// Meeting room 2F (paid)
	{"2階の有料会議室は1時間2,000円です。受付での予約が必要です。利用時間は9:00〜21:00です。", "ja", "facility", []string{"meeting-room-2f", "paid"}},
	{"2階の有料会議室は20名まで収容でき、プロジェクターとビデオ会議設備を備えています。", "ja", "facility", []string{"meeting-room-2f", "paid"}},
	{"The paid meeting room on the 2nd floor costs 2,000 yen per hour and requires a reservation at the front desk. Available 9:00-21:00.", "en", "facility", []string{"meeting-room-2f", "paid"}},
	{"The 2nd floor paid meeting room seats up to 20 and offers a projector and video conferencing equipment.", "en", "facility", []string{"meeting-room-2f", "paid"}},

	// Building facilities
	{"館内では無料Wi-Fi「FACILITY_FREE」をご利用いただけます。パスワードは不要です。", "ja", "facility", nil},
	{"Free Wi-Fi (SSID: FACILITY_FREE) is available throughout the building. No password is required.", "en", "facility", nil},
	{"当館は地下1階から5階までの6フロア構成です。エレベーターは建物中央にあります。", "ja", "facility", nil},
	{"The building has six floors from basement 1 to the 5th floor. Elevators are in the center of the building.", "en", "facility", nil},

	// Events
	{"今週末、1階ロビーで地元作家のハンドメイドマーケットを開催します。時間は11:00〜17:00です。", "ja", "event", nil},
	{"A handmade market by local artists will be held in the 1st floor lobby this weekend, 11:00-17:00.", "en", "event", nil},
	{"毎月第2土曜日に3階ホールで朗読会を開催しています。参加無料です。", "ja", "event", nil},
	{"A reading event is held in the 3rd floor hall on the second Saturday of every month. Admission is free.", "en", "event", nil},
}

func main() {
	color.Cyan("🌱 Seeding facility knowledge corpus\n")

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		color.Yellow("Embedding provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		color.Yellow("Embedding provider: GEMINI")
	}

	repo := repository.NewKnowledgeRepository(db)
	ctx := context.Background()

	color.Yellow("Clearing existing corpus...")
	if err := repo.DeleteAll(ctx); err != nil {
		color.Red("Failed to clear corpus: %v", err)
		os.Exit(1)
	}

	seeded := 0
	for _, doc := range corpus {
		emb, err := provider.Generate(doc.Content, "retrieval_document")
		if err != nil {
			color.Red("Embedding failed for %q: %v", truncate(doc.Content, 30), err)
			os.Exit(1)
		}

		tags, err := json.Marshal(doc.EntityTags)
		if err != nil {
			log.Fatalf("Failed to encode tags: %v", err)
		}

		record := &model.KnowledgeDocument{
			Content:        doc.Content,
			Language:       doc.Language,
			SourceCategory: doc.SourceCategory,
			EntityTags:     datatypes.JSON(tags),
			EmbeddingValue: pgvector.NewVector(emb.Embedding.Values),
		}
		if err := repo.Create(ctx, record); err != nil {
			color.Red("Failed to store document: %v", err)
			os.Exit(1)
		}

		seeded++
		color.Green("  ✓ [%s/%s] %s", doc.Language, doc.SourceCategory, truncate(doc.Content, 40))
	}

	color.Cyan("\n✅ Seeded %d documents", seeded)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
