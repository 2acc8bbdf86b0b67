// Package mcp exposes the BCF session over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/bcfview/bcfview/internal/database"
	"github.com/bcfview/bcfview/internal/loader"
	"github.com/bcfview/bcfview/internal/usecase"
)

// Server wraps the MCP server with the BCF session tools.
type Server struct {
	server *mcp.Server
	dbCtx  *database.Context
	log    zerolog.Logger

	mu      sync.Mutex
	session *usecase.Session
}

// NewServer opens the session catalog and restores the stored session.
func NewServer(ctx context.Context, version string, log zerolog.Logger) (*Server, error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	s := newServer(dbCtx, version, log)
	if err := s.session.Open(ctx); err != nil {
		_ = database.CloseDatabase(dbCtx)
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return s, nil
}

func newServer(dbCtx *database.Context, version string, log zerolog.Logger) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "bcfview",
			Version: version,
		}, nil),
		dbCtx:   dbCtx,
		log:     log,
		session: usecase.NewSession(dbCtx, loader.New(loader.WithLogger(log)), log),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		_ = database.CloseDatabase(s.dbCtx)
	}()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_load",
		Description: "Replace the session with one BCF archive",
	}, s.handleLoad)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_append",
		Description: "Add a BCF archive to the session",
	}, s.handleAppend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_clear",
		Description: "Remove every archive from the session",
	}, s.handleClear)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_files",
		Description: "List the archives of the session",
	}, s.handleFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_topics",
		Description: "List the topics of the session in display order",
	}, s.handleTopics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_topic",
		Description: "Show a topic with its comments and viewpoints",
	}, s.handleTopic)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bcf_viewpoint",
		Description: "Show the camera of a viewpoint and return its snapshot",
	}, s.handleViewpoint)
}

type PathInput struct {
	Path string `json:"path" jsonschema:"path to a .bcf or .bcfzip file"`
}

type FileOutput struct {
	File usecase.FileView `json:"file"`
}

type ClearInput struct{}

type ClearOutput struct {
	Message string `json:"message"`
}

type FilesInput struct{}

type FilesOutput struct {
	Files []usecase.FileView `json:"files"`
}

type TopicsInput struct {
	Archive *string `json:"archive,omitempty" jsonschema:"only list topics of the archive with this name"`
}

type TopicsOutput struct {
	Topics []usecase.TopicView `json:"topics"`
}

type TopicInput struct {
	Topic string `json:"topic" jsonschema:"topic GUID or number from bcf_topics"`
}

type ViewpointInput struct {
	Topic     string  `json:"topic" jsonschema:"topic GUID or number from bcf_topics"`
	Viewpoint *string `json:"viewpoint,omitempty" jsonschema:"viewpoint GUID, the first viewpoint when omitted"`
}

func (s *Server) handleLoad(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, FileOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.session.Load(ctx, input.Path)
	if err != nil {
		return nil, FileOutput{}, fmt.Errorf("failed to load %s: %w", input.Path, err)
	}
	return nil, FileOutput{File: usecase.NewFileView(a)}, nil
}

func (s *Server) handleAppend(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, FileOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.session.Append(ctx, input.Path)
	if err != nil {
		return nil, FileOutput{}, fmt.Errorf("failed to append %s: %w", input.Path, err)
	}
	return nil, FileOutput{File: usecase.NewFileView(a)}, nil
}

func (s *Server) handleClear(ctx context.Context, req *mcp.CallToolRequest, input ClearInput) (*mcp.CallToolResult, ClearOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Clear(ctx); err != nil {
		return nil, ClearOutput{}, fmt.Errorf("failed to clear session: %w", err)
	}
	return nil, ClearOutput{Message: "Session cleared"}, nil
}

func (s *Server) handleFiles(ctx context.Context, req *mcp.CallToolRequest, input FilesInput) (*mcp.CallToolResult, FilesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.session.Set().Files()
	out := FilesOutput{Files: make([]usecase.FileView, 0, len(files))}
	for _, a := range files {
		out.Files = append(out.Files, usecase.NewFileView(a))
	}
	return nil, out, nil
}

func (s *Server) handleTopics(ctx context.Context, req *mcp.CallToolRequest, input TopicsInput) (*mcp.CallToolResult, TopicsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := TopicsOutput{Topics: []usecase.TopicView{}}
	for _, t := range usecase.TopicViews(s.session.Set()) {
		if input.Archive != nil && t.Archive != *input.Archive {
			continue
		}
		out.Topics = append(out.Topics, t)
	}
	return nil, out, nil
}

func (s *Server) handleTopic(ctx context.Context, req *mcp.CallToolRequest, input TopicInput) (*mcp.CallToolResult, usecase.TopicDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.session.Set()
	ref, err := usecase.ResolveTopic(set, input.Topic)
	if err != nil {
		return nil, usecase.TopicDetail{}, err
	}
	return nil, usecase.NewTopicDetail(usecase.TopicNumber(set, ref), ref), nil
}

func (s *Server) handleViewpoint(ctx context.Context, req *mcp.CallToolRequest, input ViewpointInput) (*mcp.CallToolResult, usecase.ViewpointView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := usecase.ResolveTopic(s.session.Set(), input.Topic)
	if err != nil {
		return nil, usecase.ViewpointView{}, err
	}
	var guid string
	if input.Viewpoint != nil {
		guid = *input.Viewpoint
	}
	vp, err := usecase.ResolveViewpoint(ref.Markup, guid)
	if err != nil {
		return nil, usecase.ViewpointView{}, err
	}

	view := usecase.NewViewpointView(vp)
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: ref.Markup.Topic.Title + "\n" + view.Summary},
		},
	}
	if img := vp.Image(); img != nil {
		result.Content = append(result.Content, &mcp.ImageContent{
			Data:     img.Data,
			MIMEType: "image/" + img.Format,
		})
	}
	return result, view, nil
}
