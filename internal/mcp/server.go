package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

// Server exposes the report index and review queue as MCP tools.
type Server struct {
	server  *mcp.Server
	reports *usecase.Report
	reviews *usecase.Review
}

// NewServer creates a new MCP server backed by dbCtx and the reports directory root.
func NewServer(dbCtx *database.Context, root, version string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "cerebro",
		Version: version,
	}, nil)

	s := &Server{
		server:  mcpServer,
		reports: usecase.NewReport(dbCtx, root),
		reviews: usecase.NewReview(dbCtx),
	}

	s.registerTools()

	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reports_search",
		Description: "Full-text search over report titles and bodies. Returns best matches first with a highlighted snippet.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reports_list",
		Description: "List indexed reports, newest first, optionally filtered by content type, favorites, tag or collection",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "report_get",
		Description: "Get one report with its tags, collections, review state and optionally its markdown content",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reports_sync",
		Description: "Re-index the reports directory. Unchanged files are skipped.",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_add",
		Description: "Add a report to the spaced-repetition queue. It becomes due tomorrow.",
	}, s.handleReviewAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_record",
		Description: "Record a review of a report with a recall quality from 0 (blackout) to 5 (perfect) and reschedule it",
	}, s.handleReviewRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_due",
		Description: "List reports due for review today, most overdue first",
	}, s.handleReviewDue)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_stats",
		Description: "Get review queue statistics",
	}, s.handleReviewStats)
}

type SearchInput struct {
	Query string `json:"query"           jsonschema:"Words to search for; each word matches as a prefix"`
	Limit *int   `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

type SearchOutput struct {
	Results []SearchResult `json:"results"`
}

type SearchResult struct {
	Report  ReportSummary `json:"report"`
	Snippet string        `json:"snippet"`
}

type ListInput struct {
	Type          *string `json:"type,omitempty"           jsonschema:"Content type: youtube, article, paper or other"`
	FavoritesOnly *bool   `json:"favorites_only,omitempty" jsonschema:"Only return favorite reports"`
	Tag           *string `json:"tag,omitempty"            jsonschema:"Tag name or id"`
	Collection    *string `json:"collection,omitempty"     jsonschema:"Collection name or id"`
	Page          *int    `json:"page,omitempty"           jsonschema:"Page number starting at 1"`
	PageSize      *int    `json:"page_size,omitempty"      jsonschema:"Reports per page (default 20, max 100)"`
}

type ListOutput struct {
	Reports    []ReportSummary `json:"reports"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

type ReportSummary struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	SourceURL   string `json:"source_url,omitempty"`
	CreatedAt   string `json:"created_at"`
	Summary     string `json:"summary,omitempty"`
	WordCount   int64  `json:"word_count"`
	IsFavorite  bool   `json:"is_favorite"`
}

type GetInput struct {
	ID             int64 `json:"id"                        jsonschema:"The report id"`
	IncludeContent *bool `json:"include_content,omitempty" jsonschema:"Include the markdown file content"`
}

type GetOutput struct {
	Report      ReportSummary `json:"report"`
	FilePath    string        `json:"file_path"`
	IndexedAt   string        `json:"indexed_at"`
	ModifiedAt  string        `json:"file_modified_at"`
	Tags        []string      `json:"tags"`
	Collections []string      `json:"collections"`
	Review      *ReviewState  `json:"review,omitempty"`
	Content     string        `json:"content,omitempty"`
}

type ReviewState struct {
	EaseFactor     float64 `json:"ease_factor"`
	IntervalDays   int64   `json:"interval_days"`
	Repetitions    int64   `json:"repetitions"`
	NextReviewDate string  `json:"next_review_date"`
	LastReviewDate string  `json:"last_review_date,omitempty"`
}

type SyncInput struct{}

type SyncOutput struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

type ReviewAddInput struct {
	ReportID int64 `json:"report_id" jsonschema:"The report id to queue"`
}

type ReviewAddOutput struct {
	Message string `json:"message"`
	Added   bool   `json:"added"`
}

type ReviewRecordInput struct {
	ReportID int64 `json:"report_id" jsonschema:"The reviewed report id"`
	Quality  int   `json:"quality"   jsonschema:"Recall quality from 0 to 5; below 3 counts as a failure"`
}

type ReviewRecordOutput struct {
	ReportID       int64   `json:"report_id"`
	NextReviewDate string  `json:"next_review_date"`
	IntervalDays   int64   `json:"interval_days"`
	EaseFactor     float64 `json:"ease_factor"`
	Repetitions    int64   `json:"repetitions"`
}

type ReviewDueInput struct {
	Limit *int `json:"limit,omitempty" jsonschema:"Maximum number of items (default 10)"`
}

type ReviewDueOutput struct {
	Items []DueItem `json:"items"`
	Count int       `json:"count"`
}

type DueItem struct {
	ReportID    int64       `json:"report_id"`
	Title       string      `json:"title"`
	ContentType string      `json:"content_type"`
	SourceURL   string      `json:"source_url,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Review      ReviewState `json:"review"`
}

type ReviewStatsInput struct{}

type ReviewStatsOutput struct {
	DueCount      int64   `json:"due_count"`
	TotalInQueue  int64   `json:"total_in_queue"`
	ReviewedToday int64   `json:"reviewed_today"`
	StreakDays    int64   `json:"streak_days"`
	AverageEase   float64 `json:"average_ease"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	hits, err := s.reports.Search(ctx, input.Query, intValue(input.Limit))
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("failed to search reports: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			Report:  summarize(hit.Report),
			Snippet: hit.Snippet,
		})
	}
	return nil, SearchOutput{Results: results}, nil
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	page, err := s.reports.List(ctx, usecase.ListInput{
		Type:          stringValue(input.Type),
		FavoritesOnly: input.FavoritesOnly != nil && *input.FavoritesOnly,
		Tag:           stringValue(input.Tag),
		Collection:    stringValue(input.Collection),
		Page:          intValue(input.Page),
		PageSize:      intValue(input.PageSize),
	})
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]ReportSummary, 0, len(page.Items))
	for _, r := range page.Items {
		reports = append(reports, summarize(r))
	}
	return nil, ListOutput{
		Reports:    reports,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	detail, err := s.reports.Get(ctx, input.ID, input.IncludeContent != nil && *input.IncludeContent)
	if err != nil {
		return nil, GetOutput{}, fmt.Errorf("failed to get report: %w", err)
	}

	tags := make([]string, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		tags = append(tags, tag.Name)
	}
	collections := make([]string, 0, len(detail.Collections))
	for _, collection := range detail.Collections {
		collections = append(collections, collection.Name)
	}

	out := GetOutput{
		Report:      summarize(detail.Report),
		FilePath:    detail.Report.FilePath,
		IndexedAt:   detail.Report.IndexedAt.Format(time.RFC3339),
		ModifiedAt:  detail.Report.FileModifiedAt.Format(time.RFC3339Nano),
		Tags:        tags,
		Collections: collections,
		Content:     detail.Content,
	}
	if detail.Review != nil {
		state := reviewState(*detail.Review)
		out.Review = &state
	}
	return nil, out, nil
}

func (s *Server) handleSync(ctx context.Context, req *mcp.CallToolRequest, input SyncInput) (*mcp.CallToolResult, SyncOutput, error) {
	summary, err := s.reports.Sync(ctx)
	if err != nil {
		return nil, SyncOutput{}, fmt.Errorf("failed to index reports: %w", err)
	}
	return nil, SyncOutput{Indexed: summary.Indexed, Failed: summary.Failed}, nil
}

func (s *Server) handleReviewAdd(ctx context.Context, req *mcp.CallToolRequest, input ReviewAddInput) (*mcp.CallToolResult, ReviewAddOutput, error) {
	record, added, err := s.reviews.Add(ctx, input.ReportID)
	if err != nil {
		return nil, ReviewAddOutput{}, fmt.Errorf("failed to queue report: %w", err)
	}

	msg := fmt.Sprintf("Added '%s' to review queue", record.Title)
	if !added {
		msg = fmt.Sprintf("'%s' is already in the review queue", record.Title)
	}
	return nil, ReviewAddOutput{Message: msg, Added: added}, nil
}

func (s *Server) handleReviewRecord(ctx context.Context, req *mcp.CallToolRequest, input ReviewRecordInput) (*mcp.CallToolResult, ReviewRecordOutput, error) {
	result, err := s.reviews.Record(ctx, input.ReportID, input.Quality)
	if err != nil {
		return nil, ReviewRecordOutput{}, fmt.Errorf("failed to record review: %w", err)
	}
	return nil, ReviewRecordOutput{
		ReportID:       result.ReportID,
		NextReviewDate: database.FormatDate(result.NextReviewDate),
		IntervalDays:   result.IntervalDays,
		EaseFactor:     result.EaseFactor,
		Repetitions:    result.Repetitions,
	}, nil
}

func (s *Server) handleReviewDue(ctx context.Context, req *mcp.CallToolRequest, input ReviewDueInput) (*mcp.CallToolResult, ReviewDueOutput, error) {
	due, err := s.reviews.Due(ctx, intValue(input.Limit))
	if err != nil {
		return nil, ReviewDueOutput{}, fmt.Errorf("failed to list due reviews: %w", err)
	}

	items := make([]DueItem, 0, len(due))
	for _, d := range due {
		items = append(items, DueItem{
			ReportID:    d.State.ReportID,
			Title:       d.Title,
			ContentType: string(d.ContentType),
			SourceURL:   d.SourceURL,
			Summary:     d.Summary,
			Review:      reviewState(d.State),
		})
	}
	return nil, ReviewDueOutput{Items: items, Count: len(items)}, nil
}

func (s *Server) handleReviewStats(ctx context.Context, req *mcp.CallToolRequest, input ReviewStatsInput) (*mcp.CallToolResult, ReviewStatsOutput, error) {
	stats, err := s.reviews.Stats(ctx)
	if err != nil {
		return nil, ReviewStatsOutput{}, fmt.Errorf("failed to compute review stats: %w", err)
	}
	return nil, ReviewStatsOutput(stats), nil
}

func summarize(r database.ReportRecord) ReportSummary {
	return ReportSummary{
		ID:          r.ID,
		Filename:    r.Filename,
		Title:       r.Title,
		ContentType: string(r.ContentType),
		SourceURL:   r.SourceURL,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Summary:     r.Summary,
		WordCount:   r.WordCount,
		IsFavorite:  r.IsFavorite,
	}
}

func reviewState(r database.ReviewStateRecord) ReviewState {
	state := ReviewState{
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		NextReviewDate: database.FormatDate(r.NextReviewDate),
	}
	if r.LastReviewDate != nil {
		state.LastReviewDate = database.FormatDate(*r.LastReviewDate)
	}
	return state
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
