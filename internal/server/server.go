// Package server exposes the pipeline over HTTP: project creation, media
// upload/ingest, processing, and clip listing/serving.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openshorts/openshorts/internal/config"
	"github.com/openshorts/openshorts/internal/pipeline"
	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/ports/adapters/ytdlp"
	"github.com/openshorts/openshorts/internal/project"
)

const apiVersion = "0.1.0"

type Server struct {
	cfg        *config.Config
	store      *project.Store
	downloader ports.Downloader
	log        *zap.SugaredLogger
}

func New(cfg *config.Config, store *project.Store, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		downloader: ytdlp.New(cfg.Ingest.YtdlpBin, cfg.Ingest.PreferredExts),
		log:        log,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cfg.Server.MaxUploadMB > 0 {
		r.MaxMultipartMemory = s.cfg.Server.MaxUploadMB << 20
	}

	api := r.Group("/api")
	api.POST("/projects", s.createProject)
	api.POST("/projects/:id/upload", s.upload)
	api.POST("/projects/:id/ingest", s.ingest)
	api.POST("/projects/:id/process", s.process)
	api.GET("/projects/:id/clips", s.listClips)
	api.GET("/projects/:id/clips/:file", s.getClip)
	api.GET("/health", s.health)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) createProject(c *gin.Context) {
	id, err := s.store.Create()
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Infow("project created", "project_id", id)
	c.JSON(http.StatusOK, gin.H{"project_id": id})
}

func (s *Server) upload(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.Dir(id); err != nil {
		s.fail(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	name := filepath.Base(fh.Filename)
	if name == "" || name == "." {
		name = "input.mp4"
	}
	dest := filepath.Join(s.store.InputDir(id), name)
	if err := c.SaveUploadedFile(fh, dest); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Infow("media uploaded", "project_id", id, "file", name)
	c.JSON(http.StatusOK, gin.H{"ok": true, "path": dest})
}

type ingestRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) ingest(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.Dir(id); err != nil {
		s.fail(c, err)
		return
	}
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	path, err := s.downloader.Fetch(c.Request.Context(), req.URL, s.store.InputDir(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Infow("media ingested", "project_id", id, "path", path)
	c.JSON(http.StatusOK, gin.H{"ok": true, "path": path})
}

type processRequest struct {
	ClipLengthSec float64 `json:"clip_length_sec"`
	MaxClips      int     `json:"max_clips"`
	Aspect        string  `json:"aspect"`
	Style         string  `json:"style"`
	Language      string  `json:"language"`
}

func (s *Server) process(c *gin.Context) {
	id := c.Param("id")

	// An empty body means defaults; anything unparseable is a 400.
	var req processRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad request: %v", err)})
			return
		}
	}
	if req.ClipLengthSec <= 0 {
		req.ClipLengthSec = 15
	}
	if req.MaxClips <= 0 {
		req.MaxClips = 6
	}
	if req.Aspect == "" {
		req.Aspect = "9:16"
	}
	if req.Style == "" {
		req.Style = "default"
	}

	input, err := s.store.FindInput(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	manifest, err := pipeline.Run(c.Request.Context(), pipeline.Config{
		Input:     input,
		WorkDir:   s.store.WorkDir(id),
		ClipsDir:  s.store.ClipsDir(id),
		TargetLen: req.ClipLengthSec,
		MaxClips:  req.MaxClips,
		Aspect:    req.Aspect,
		Style:     req.Style,
		Language:  req.Language,
		App:       s.cfg,
		Logf:      s.log.Infof,
	})
	if err != nil {
		s.log.Errorw("processing failed", "project_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SaveManifest(id, manifest); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clips": manifest})
}

func (s *Server) listClips(c *gin.Context) {
	manifest, err := s.store.LoadManifest(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clips": manifest})
}

func (s *Server) getClip(c *gin.Context) {
	path, err := s.store.ClipPath(c.Param("id"), c.Param("file"))
	if err != nil {
		if errors.Is(err, project.ErrUnknownProject) {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "clip not found"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": apiVersion})
}

// fail maps store errors onto boundary status codes: unknown project is a
// 404, a project without usable input is a 400, the rest are 500s.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, project.ErrUnknownProject):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, project.ErrNoInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Errorw("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
