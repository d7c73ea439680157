package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/layout"
	"github.com/fragmede/forumview/internal/monitor"
	"github.com/fragmede/forumview/internal/render"
	"github.com/fragmede/forumview/internal/ui"
	"github.com/fragmede/forumview/internal/ui/topiclist"
)

func main() {
	dump := flag.Bool("dump", false, "print the topic as plain text and exit")
	width := flag.Int("width", 100, "wrap width for -dump")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-dump [-width n]] [topic-id]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var topicID int
	if flag.NArg() > 0 {
		topicID, err = strconv.Atoi(flag.Arg(0))
		if err != nil || topicID <= 0 {
			log.Fatalf("invalid topic id %q", flag.Arg(0))
		}
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	db, err := cache.Open(cfg.DBPath, cfg.MemoSize)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	client := api.NewClient(cfg)

	if *dump {
		if topicID == 0 {
			log.Fatal("-dump needs a topic id")
		}
		if err := dumpTopic(client, db, cfg, topicID, *width); err != nil {
			log.Fatal(err)
		}
		return
	}

	logFile, err := tea.LogToFile(cfg.LogPath, "forumview")
	if err != nil {
		log.Fatalf("opening log: %v", err)
	}
	defer logFile.Close()

	// Prefetch the index and its first topics into cache on startup.
	go prefetch(client, db, cfg)

	mon := monitor.New(cfg, client, db)
	app := ui.NewApp(cfg, client, db, mon)
	if topicID > 0 {
		app.OpenTopic(topicID)
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	mon.Start(p)
	defer mon.Stop()
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dumpTopic(client *api.Client, db *cache.DB, cfg config.Config, id, width int) error {
	post, fresh, err := db.GetTopic(id, cfg.TopicTTL)
	if err != nil {
		log.Printf("reading cached topic %d: %v", id, err)
	}
	if post == nil || !fresh {
		post, err = client.GetTopic(context.Background(), id)
		if err != nil {
			return err
		}
		if err := db.PutTopic(post); err != nil {
			log.Printf("caching topic %d: %v", id, err)
		}
	}
	return render.WriteThread(os.Stdout, post, layout.PrepareDisplayItems(post, nil), width)
}

func prefetch(client *api.Client, db *cache.DB, cfg config.Config) {
	ctx := context.Background()
	if _, fresh, _ := db.GetTopicList(topiclist.ListKey, cfg.ListTTL); fresh {
		return
	}
	refs, err := client.GetTopicList(ctx)
	if err != nil {
		log.Printf("prefetch: %v", err)
		return
	}
	db.PutTopicList(topiclist.ListKey, refs)

	ids := make([]int, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	posts, _ := client.BatchGetTopics(ctx, ids)
	for _, post := range posts {
		if post != nil {
			db.PutTopic(post)
		}
	}
}
