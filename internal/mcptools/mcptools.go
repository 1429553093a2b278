// Package mcptools exposes posting scoring and the saved-internship tracker as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/fetch"
	"github.com/jonathan/internship-assistant/internal/parsing"
	"github.com/jonathan/internship-assistant/internal/schemas"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

// ServerName is announced to MCP clients.
const ServerName = "internship-agent"

// Store is the saved-internship storage the tools need.
type Store interface {
	ListInternships(ctx context.Context, userID uuid.UUID) ([]types.Internship, error)
	UpdateInternshipStatus(ctx context.Context, userID, id uuid.UUID, status string) (bool, error)
}

// Tools holds the collaborators behind the tool handlers.
type Tools struct {
	store  Store
	userID uuid.UUID
	logger *zap.Logger
}

// New creates Tools. A nil store leaves only score_posting usable.
func New(store Store, userID uuid.UUID, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{store: store, userID: userID, logger: logger}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version)
	t.Register(s)
	return s
}

// ServeStdio serves s over stdin and stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	scoreTool := mcp.NewTool("score_posting",
		mcp.WithDescription("Score a resume against one job posting: compatibility, acceptance estimate and match category"),
	)
	scoreTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"resume":             map[string]interface{}{"type": "object", "description": "Resume record (skills, education, professional_experience, projects, ...)"},
			"resume_path":        map[string]interface{}{"type": "string", "description": "Path to a resume record JSON file, used when resume is absent"},
			"title":              map[string]interface{}{"type": "string", "description": "Job title"},
			"company":            map[string]interface{}{"type": "string", "description": "Company name"},
			"description":        map[string]interface{}{"type": "string", "description": "Job description, plain text or HTML"},
			"competition_level":  map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}, "description": "Overrides the estimated competition"},
			"application_timing": map[string]interface{}{"type": "string", "enum": []string{"early", "normal", "late"}, "description": "When the application is sent (default: normal)"},
		},
		Required: []string{"description"},
	}
	s.AddTool(scoreTool, t.ScorePosting)

	listTool := mcp.NewTool("list_internships",
		mcp.WithDescription("List saved internships, new first then applied then rejected, newest first within a status"),
	)
	listTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"status":  map[string]interface{}{"type": "string", "enum": []string{"new", "applied", "rejected"}, "description": "Only return internships with this status (optional)"},
			"user_id": map[string]interface{}{"type": "string", "description": "Override the configured user (optional)"},
		},
	}
	s.AddTool(listTool, t.ListInternships)

	statusTool := mcp.NewTool("update_internship_status",
		mcp.WithDescription("Set the status of a saved internship to new, applied or rejected"),
	)
	statusTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"id":      map[string]interface{}{"type": "string", "description": "Internship id"},
			"status":  map[string]interface{}{"type": "string", "enum": []string{"new", "applied", "rejected"}, "description": "New status"},
			"user_id": map[string]interface{}{"type": "string", "description": "Override the configured user (optional)"},
		},
		Required: []string{"id", "status"},
	}
	s.AddTool(statusTool, t.UpdateInternshipStatus)
}

// ScorePosting handles score_posting.
func (t *Tools) ScorePosting(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	record, err := t.resumeArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	posting := types.RawPosting{
		Title:       stringArg(args, "title"),
		Company:     stringArg(args, "company"),
		Description: fetch.CleanDescription(stringArg(args, "description")),
	}
	if posting.Description == "" && posting.Title == "" {
		return mcp.NewToolResultError("title or description is required"), nil
	}
	market := types.MarketContext{
		CompetitionLevel:  types.CompetitionLevel(stringArg(args, "competition_level")),
		ApplicationTiming: types.ApplicationTiming(stringArg(args, "application_timing")),
	}

	if err := validator.New().Struct(&market); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid market context: %v", err)), nil
	}

	scored := search.ScorePostingInMarket(parsing.AnalyzeResume(record), "", posting, market)

	t.logger.Debug("scored posting",
		zap.String("title", posting.Title),
		zap.Float64("overall", scored.Compatibility.OverallCompatibility))
	return jsonResult(scored)
}

// ListInternships handles list_internships.
func (t *Tools) ListInternships(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	if t.store == nil {
		return mcp.NewToolResultError("storage is not configured"), nil
	}
	userID, err := t.user(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var filter types.Status
	if raw := stringArg(args, "status"); raw != "" {
		if filter, err = types.ParseStatus(raw); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	list, err := t.store.ListInternships(ctx, userID)
	if err != nil {
		t.logger.Warn("failed to list internships", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list internships: %v", err)), nil
	}
	out := make([]types.Internship, 0, len(list))
	for _, in := range list {
		if filter != "" && in.Status != filter {
			continue
		}
		in.Description = ""
		out = append(out, in)
	}
	return jsonResult(out)
}

// UpdateInternshipStatus handles update_internship_status.
func (t *Tools) UpdateInternshipStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	if t.store == nil {
		return mcp.NewToolResultError("storage is not configured"), nil
	}
	userID, err := t.user(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := uuid.Parse(stringArg(args, "id"))
	if err != nil {
		return mcp.NewToolResultError("id must be a UUID"), nil
	}
	status, err := types.ParseStatus(stringArg(args, "status"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := t.store.UpdateInternshipStatus(ctx, userID, id, string(status))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update internship: %v", err)), nil
	}
	if !updated {
		return mcp.NewToolResultError(fmt.Sprintf("Internship %s not found", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Internship %s marked %s.", id, status)), nil
}

func (t *Tools) user(args map[string]interface{}) (uuid.UUID, error) {
	raw := stringArg(args, "user_id")
	if raw == "" {
		if t.userID == uuid.Nil {
			return uuid.Nil, errors.New("user_id is required")
		}
		return t.userID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("user_id must be a UUID")
	}
	return id, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// resumeArg reads the resume from an inline object, an inline JSON string or resume_path.
func (t *Tools) resumeArg(args map[string]interface{}) (types.ResumeRecord, error) {
	var doc []byte
	switch v := args["resume"].(type) {
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return types.ResumeRecord{}, fmt.Errorf("invalid resume: %w", err)
		}
		doc = b
	case string:
		doc = []byte(v)
	case nil:
		path := stringArg(args, "resume_path")
		if path == "" {
			return types.ResumeRecord{}, errors.New("resume or resume_path is required")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return types.ResumeRecord{}, fmt.Errorf("failed to read resume: %w", err)
		}
		doc = b
	default:
		return types.ResumeRecord{}, errors.New("resume must be an object")
	}

	if err := schemas.ValidateResumeRecord(doc); err != nil {
		t.logger.Warn("resume does not match the schema, decoding leniently", zap.Error(err))
	}
	return types.ParseResumeRecord(doc)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
