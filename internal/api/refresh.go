package api

import (
	"net/http"
	"strings"
	"time"
)

// Refresher schedules reloads of the named screens after a delay. The
// console registry implements it; only the currently active screen actually
// reloads.
type Refresher interface {
	ScheduleReload(screens []string, delay time.Duration)
}

// Screen names used by the refresh rule table. They match the console
// registry's registration names.
const (
	ScreenDashboard = "dashboard"
	ScreenVideos    = "videos"
	ScreenFrames    = "frames"
	ScreenTraining  = "training"
	ScreenQdrant    = "qdrant"
)

// refreshRule maps an endpoint family onto the screens a successful
// mutation invalidates. slow marks families whose backend work is queued
// asynchronously and needs a longer settle delay.
type refreshRule struct {
	prefix  string
	screens []string
	slow    bool
}

var refreshRules = []refreshRule{
	{prefix: "/api/video", screens: []string{ScreenVideos, ScreenFrames, ScreenDashboard}, slow: true},
	{prefix: "/api/frames", screens: []string{ScreenFrames, ScreenDashboard}},
	{prefix: "/api/training", screens: []string{ScreenTraining, ScreenDashboard}, slow: true},
	{prefix: "/api/qdrant", screens: []string{ScreenQdrant, ScreenDashboard}},
}

func isMutation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// scheduleRefresh runs after every successful call. It must never fail the
// call that triggered it: any panic from the refresher is contained here.
func (c *Client) scheduleRefresh(method, path string) {
	if c.refresher == nil || !isMutation(method) {
		return
	}
	for _, rule := range refreshRules {
		if !strings.HasPrefix(path, rule.prefix) {
			continue
		}
		delay := c.mutationDelay
		if rule.slow {
			delay = c.trainingDelay
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("refresh trigger panicked", "path", path, "panic", r)
				}
			}()
			c.refresher.ScheduleReload(rule.screens, delay)
		}()
		return
	}
}
