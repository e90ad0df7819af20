package vocsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lexio/config"
	"lexio/internal/database/model"
	"lexio/pkg/logger"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const vectorDim = 1536

// Hit is one vocabulary search result.
type Hit struct {
	VocabularyID  string
	LearningSetID string
	Word          string
	Definition    string
	Score         float32
}

// IndexVocabulary embeds the given items and inserts them into the
// vocabulary collection. Word and definition are embedded together so a
// query can match on either.
func IndexVocabulary(ctx context.Context, items []model.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}
	inputs := make([]string, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, it.Word+": "+it.Definition)
	}
	vectors, err := Embed(ctx, inputs)
	if err != nil {
		return err
	}
	if len(vectors) != len(items) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d items", len(vectors), len(items))
	}

	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return err
	}
	defer cli.Close()

	collection := collectionName()
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		if err := createVocabularyCollection(ctx, cli, collection); err != nil {
			return err
		}
	}

	ids := make([]string, len(items))
	setIDs := make([]string, len(items))
	words := make([]string, len(items))
	definitions := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
		setIDs[i] = it.LearningSetID
		words[i] = it.Word
		definitions[i] = it.Definition
	}

	colID := milvusentity.NewColumnVarChar("id", ids)
	colSet := milvusentity.NewColumnVarChar("learning_set_id", setIDs)
	colWord := milvusentity.NewColumnVarChar("word", words)
	colDef := milvusentity.NewColumnVarChar("definition", definitions)
	colVec := milvusentity.NewColumnFloatVector("embedding", vectorDim, vectors)

	if _, err := cli.Insert(ctx, collection, "", colID, colSet, colWord, colDef, colVec); err != nil {
		return err
	}
	return nil
}

// Search embeds the query and returns the topK closest vocabulary entries,
// optionally restricted to one learning set.
func Search(ctx context.Context, query string, learningSetID string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 8
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Hit{}, nil
	}

	vecs, err := Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	collection := collectionName()
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []Hit{}, nil
	}
	if err := cli.LoadCollection(ctx, collection, false); err != nil {
		return nil, err
	}

	metricType := milvusentity.MetricType(config.Cfg.Milvus.MetricType)
	searchParam, err := milvusentity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, err
	}

	expr := ""
	if learningSetID != "" {
		expr = fmt.Sprintf("learning_set_id == %q", learningSetID)
	}
	outputFields := []string{"id", "learning_set_id", "word", "definition"}
	vectors := []milvusentity.Vector{milvusentity.FloatVector(vecs[0])}

	start := time.Now()
	results, err := cli.Search(
		ctx,
		collection,
		nil,
		expr,
		outputFields,
		vectors,
		"embedding",
		metricType,
		topK,
		searchParam,
	)
	if err != nil {
		logger.Error(err, "%v: milvus search failed", config.ModuleMilvus)
		return nil, err
	}
	logger.Info("%v: milvus search done in %dms", config.ModuleMilvus, time.Since(start).Milliseconds())

	if len(results) == 0 {
		return []Hit{}, nil
	}
	it := results[0]

	hits := make([]Hit, 0, it.ResultCount)
	for i := 0; i < it.ResultCount; i++ {
		var h Hit
		if ids, ok := it.IDs.(*milvusentity.ColumnVarChar); ok {
			h.VocabularyID = ids.Data()[i]
		}
		h.Score = float32(it.Scores[i])
		for _, field := range it.Fields {
			col, ok := field.(*milvusentity.ColumnVarChar)
			if !ok {
				continue
			}
			switch col.Name() {
			case "learning_set_id":
				h.LearningSetID = col.Data()[i]
			case "word":
				h.Word = col.Data()[i]
			case "definition":
				h.Definition = col.Data()[i]
			}
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// RemoveLearningSet drops every vector indexed for the given set.
func RemoveLearningSet(ctx context.Context, learningSetID string) error {
	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return err
	}
	defer cli.Close()

	collection := collectionName()
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil || !exists {
		return err
	}
	return cli.Delete(ctx, collection, "", fmt.Sprintf("learning_set_id == %q", learningSetID))
}

func collectionName() string {
	if config.Cfg.Milvus.Collection != "" {
		return config.Cfg.Milvus.Collection
	}
	return "vocabulary"
}

func createVocabularyCollection(ctx context.Context, cli milvusclient.Client, collection string) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("vocabulary embeddings")
	schema.WithField(milvusentity.NewField().WithName("id").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(36).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName("learning_set_id").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(36))
	schema.WithField(milvusentity.NewField().WithName("word").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(256))
	schema.WithField(milvusentity.NewField().WithName("definition").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(2048))
	schema.WithField(milvusentity.NewField().WithName("embedding").WithDataType(milvusentity.FieldTypeFloatVector).WithDim(vectorDim))

	return cli.CreateCollection(ctx, schema, 2)
}
