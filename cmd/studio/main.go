package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexio/internal/workflow"
	"lexio/pkg/contentapi"
)

const defaultBaseURL = "http://localhost:8000"

func usage() {
	fmt.Fprintln(os.Stderr, `usage: studio <command> [flags]

commands:
  login        authenticate and print a token
  collections  list your collections
  sets         list your learning sets
  extract      upload an image, review the extraction, save it to a set
  delete-set   delete a learning set after confirmation`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	baseURL := os.Getenv("LEXIO_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	api := contentapi.New(baseURL)
	if tok := os.Getenv("LEXIO_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, api, os.Args[2:])
	case "collections":
		err = runCollections(ctx, api, os.Args[2:])
	case "sets":
		err = runSets(ctx, api, os.Args[2:])
	case "extract":
		err = runExtract(ctx, api, os.Args[2:])
	case "delete-set":
		err = runDeleteSet(ctx, api, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, api *contentapi.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fs.Parse(args)
	if *username == "" || *password == "" {
		return fmt.Errorf("both -u and -p are required")
	}

	res, err := api.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", res.User.Username, res.User.Role)
	fmt.Println("export LEXIO_TOKEN=" + res.AccessToken)
	return nil
}

func runCollections(ctx context.Context, api *contentapi.Client, args []string) error {
	fs := flag.NewFlagSet("collections", flag.ExitOnError)
	search := fs.String("search", "", "filter by name or description")
	grade := fs.String("grade", "", "filter by grade level")
	subject := fs.String("subject", "", "filter by subject")
	fs.Parse(args)

	cols, err := api.ListCollections(ctx, contentapi.CollectionFilter{
		Search:     *search,
		GradeLevel: *grade,
		Subject:    *subject,
	})
	if err != nil {
		return err
	}
	for _, col := range cols {
		fmt.Printf("%s  %s", col.ID, col.Name)
		if col.GradeLevel != "" {
			fmt.Printf("  [grade %s]", col.GradeLevel)
		}
		fmt.Println()
	}
	if len(cols) == 0 {
		fmt.Println("no collections")
	}
	return nil
}

func runSets(ctx context.Context, api *contentapi.Client, args []string) error {
	fs := flag.NewFlagSet("sets", flag.ExitOnError)
	collection := fs.String("collection", "", "filter by collection id")
	search := fs.String("search", "", "filter by name or description")
	fs.Parse(args)

	sets, err := api.ListLearningSets(ctx, contentapi.LearningSetFilter{
		CollectionID: *collection,
		Search:       *search,
	})
	if err != nil {
		return err
	}
	for _, set := range sets {
		fmt.Printf("%s  %s\n", set.ID, set.Name)
	}
	if len(sets) == 0 {
		fmt.Println("no learning sets")
	}
	return nil
}

func runExtract(ctx context.Context, api *contentapi.Client, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	imagePath := fs.String("image", "", "path to the image file")
	setID := fs.String("set", "", "learning set id to save into")
	fs.Parse(args)
	if *imagePath == "" {
		return fmt.Errorf("-image is required")
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	ctrl := workflow.New(api)
	input := workflow.FileInput{
		Filename: filepath.Base(*imagePath),
		MIMEType: mimeFromPath(*imagePath),
		Size:     info.Size(),
		Reader:   f,
	}
	if err := ctrl.Upload(ctx, input); err != nil {
		return err
	}
	if msg := ctrl.ErrMessage(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	printContent(ctrl.Content(), ctrl.FileID(), ctrl.Result())

	stdin := bufio.NewScanner(os.Stdin)
	if *setID == "" {
		fmt.Print("learning set id (empty to cancel): ")
		if stdin.Scan() {
			*setID = strings.TrimSpace(stdin.Text())
		}
	}
	if *setID == "" {
		ctrl.Cancel(ctx)
		fmt.Println("cancelled; nothing saved")
		return nil
	}

	if !ctrl.SaveEnabled() {
		ctrl.Cancel(ctx)
		return fmt.Errorf("nothing to save: no vocabulary or grammar extracted")
	}
	fmt.Print("save to this set? [y/N]: ")
	confirmed := false
	if stdin.Scan() {
		answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
		confirmed = answer == "y" || answer == "yes"
	}
	if !confirmed {
		ctrl.Cancel(ctx)
		fmt.Println("cancelled; nothing saved")
		return nil
	}

	saved, err := ctrl.Save(ctx, *setID)
	if err != nil {
		return err
	}
	fmt.Printf("saved %d vocabulary items and %d grammar topics to %s\n",
		saved.VocabularySaved, saved.GrammarSaved, saved.LearningSetID)
	return nil
}

func runDeleteSet(ctx context.Context, api *contentapi.Client, args []string) error {
	fs := flag.NewFlagSet("delete-set", flag.ExitOnError)
	setID := fs.String("id", "", "learning set id")
	fs.Parse(args)
	if *setID == "" {
		return fmt.Errorf("-id is required")
	}

	set, err := api.GetLearningSet(ctx, *setID)
	if err != nil {
		return err
	}

	stdin := bufio.NewScanner(os.Stdin)
	confirm := func() bool {
		fmt.Printf("delete %q and its %d vocabulary items? [y/N]: ", set.Name, len(set.Vocabulary))
		if !stdin.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
		return answer == "y" || answer == "yes"
	}
	err = workflow.DeleteWithConfirm(confirm, func() error {
		return api.DeleteLearningSet(ctx, *setID)
	})
	if err != nil {
		return err
	}
	fmt.Println("done")
	return nil
}

func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	}
	return "image/jpeg"
}

func printContent(content contentapi.ExtractedContent, fileID string, result contentapi.ImageProcessingResult) {
	fmt.Printf("file %s (confidence %.2f, source %s)\n", fileID, result.Confidence, result.SourceType)
	if result.NeedsReview {
		fmt.Println("flagged for review")
	}
	fmt.Printf("vocabulary (%d):\n", len(content.Vocabulary))
	for _, v := range content.Vocabulary {
		fmt.Printf("  %-20s %s\n", v.Word, v.Definition)
	}
	fmt.Printf("grammar topics (%d):\n", len(content.GrammarTopics))
	for _, g := range content.GrammarTopics {
		fmt.Printf("  %-20s %s\n", g.Name, g.Description)
	}
	for _, e := range content.Exercises {
		fmt.Printf("  exercise: %s\n", e.Question)
	}
}
