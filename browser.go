// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package websnap

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// PageCapture is the raw telemetry collected from one page load, before
// annotation and formatting.
type PageCapture struct {
	Title    string
	URL      string
	Tree     string
	Requests []*NetworkEntry
	Console  []ConsoleEntry
	// TimedOut marks a capture whose page-load deadline elapsed. The data
	// collected up to that point is still returned.
	TimedOut bool
}

// browserRenderer owns the shared browser allocator. Each snapshot call gets
// its own isolated tab context and fresh recorders; only the allocator is
// shared.
type browserRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var (
	globalRenderer     *browserRenderer
	globalRendererOnce sync.Once
)

// getRenderer returns the global browser renderer instance.
func getRenderer() *browserRenderer {
	globalRendererOnce.Do(func() {
		globalRenderer = &browserRenderer{}
		globalRenderer.init()
	})
	return globalRenderer
}

func (r *browserRenderer) init() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Close cleans up the renderer resources.
func (r *browserRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// CloseGlobalRenderer closes the global renderer instance. This should be
// called when the application exits.
func CloseGlobalRenderer() {
	if globalRenderer != nil {
		globalRenderer.Close()
	}
}

// CapturePage navigates a fresh browser tab to target and collects the raw
// snapshot material: page title, final URL, accessibility tree, network
// entries and console messages. The whole operation is bounded by the
// configured timeout; an elapsed deadline yields a partial capture rather
// than an error. Navigation and browser-launch failures are fatal for the
// call. The tab context is released on every exit path.
func (r *browserRenderer) CapturePage(ctx context.Context, target string, cfg *Config, includeNetwork, includeConsole bool) (*PageCapture, error) {
	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	tabCtx, tcancel := context.WithTimeout(tabCtx, cfg.Timeout())
	defer tcancel()

	// Propagate caller cancellation into the tab context.
	stop := context.AfterFunc(ctx, tcancel)
	defer stop()

	netRec := newNetworkRecorder(cfg.ignoreGlobs)
	conRec := &consoleRecorder{}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventRequestWillBeSent:
			if !includeNetwork || ev.Request == nil {
				return
			}
			// A redirect keeps the request id across hops; the prior hop's
			// response only arrives piggybacked on the next hop's request
			// event. Attach it before the new entry exists, so it lands on
			// the hop that actually produced it.
			if ev.RedirectResponse != nil {
				netRec.RecordResponse(string(ev.RequestID), int(ev.RedirectResponse.Status),
					responseContentType(ev.RedirectResponse), responseContentLength(ev.RedirectResponse))
			}
			netRec.RecordRequest(string(ev.RequestID), ev.Request.Method, ev.Request.URL, requestPostData(ev.Request))
		case *network.EventResponseReceived:
			if !includeNetwork || ev.Response == nil {
				return
			}
			netRec.RecordResponse(string(ev.RequestID), int(ev.Response.Status),
				responseContentType(ev.Response), responseContentLength(ev.Response))
		case *runtime.EventConsoleAPICalled:
			if !includeConsole {
				return
			}
			conRec.Record(string(ev.Type), consoleText(ev.Args))
		}
	})

	capture := &PageCapture{URL: target}

	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(cfg.ViewportWidth), int64(cfg.ViewportHeight)),
		emulation.SetUserAgentOverride(cfg.UserAgent),
		network.Enable(),
		runtime.Enable(),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(cfg.SettleWait()),
	)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("navigation failed: %w", err)
		}
		capture.TimedOut = true
	}

	if !capture.TimedOut {
		var pageHTML string
		err = chromedp.Run(tabCtx,
			chromedp.Title(&capture.Title),
			chromedp.Location(&capture.URL),
			chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				tree, err := dumpAXTree(ctx)
				if err != nil {
					return err
				}
				capture.Tree = tree
				return nil
			}),
			chromedp.ActionFunc(func(ctx context.Context) error {
				netRec.FinalizeBodies(cfg.MaxBodyCapture, func(requestID string) ([]byte, error) {
					return network.GetResponseBody(network.RequestID(requestID)).Do(ctx)
				})
				return nil
			}),
		)
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("page capture failed: %w", err)
			}
			capture.TimedOut = true
		}
		if capture.Title == "" && pageHTML != "" {
			capture.Title = titleFromHTML(pageHTML)
		}
	}

	capture.Requests = netRec.Entries()
	capture.Console = conRec.Entries()
	return capture, nil
}

// requestPostData extracts the request body carried with a request event.
// Chrome base64-encodes the entries; entries that fail to decode are used
// verbatim. Absent or unreadable bodies yield an empty string, never an
// error.
func requestPostData(req *network.Request) string {
	if !req.HasPostData {
		return ""
	}
	var parts []string
	for _, entry := range req.PostDataEntries {
		if entry == nil || entry.Bytes == "" {
			continue
		}
		if decoded, err := base64.StdEncoding.DecodeString(entry.Bytes); err == nil {
			parts = append(parts, string(decoded))
		} else {
			parts = append(parts, entry.Bytes)
		}
	}
	return strings.Join(parts, "")
}

func responseContentType(resp *network.Response) string {
	if v := headerValue(resp.Headers, "content-type"); v != "" {
		return v
	}
	return resp.MimeType
}

func responseContentLength(resp *network.Response) int64 {
	v := headerValue(resp.Headers, "content-length")
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// headerValue looks up a header case-insensitively; CDP reports header names
// as the server sent them.
func headerValue(headers network.Headers, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return fmt.Sprint(v)
		}
	}
	return ""
}
