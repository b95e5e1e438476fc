package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewd/internal/config"
	"interviewd/internal/model"
	"interviewd/internal/question"
	"interviewd/internal/repository"
)

// Loads topic question files into the question_banks collection so the
// server can select from mongo instead of the filesystem.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Load()
	dir := flag.String("dir", cfg.QuestionsDir, "directory of <topic>.json question files")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(cfg.MongoDB))
	src := question.NewFileSource(*dir)

	topics, err := src.Topics(ctx)
	if err != nil {
		logger.Error("listing topic files failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(topics) == 0 {
		logger.Warn("no topic files found", "dir", *dir)
		return
	}

	for _, topic := range topics {
		questions, err := src.Questions(ctx, topic)
		if err != nil {
			logger.Error("reading topic failed", "topic", topic, "error", err)
			os.Exit(1)
		}
		bank := &model.QuestionBank{Topic: topic, Questions: questions}
		if err := repo.Upsert(ctx, bank); err != nil {
			logger.Error("upsert failed", "topic", topic, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded topic", "topic", topic, "questions", len(questions))
	}
}
