package pagehook

import (
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Launch button constants.
const (
	DefaultHubText = "JupyterHub"
	hubIcon        = "_static/images/logo_jupyterhub.svg"
)

var labelPolicy = bluemonday.StrictPolicy()

var interfacePrefixes = map[string]string{
	"classic":    "tree",
	"jupyterlab": "lab/tree",
}

// LaunchSettings carries the resolved configuration for AddJupyterHubButtons.
type LaunchSettings struct {
	Servers           []HubServer
	NotebookInterface string
	// RepoURL falls back to ctx["theme_repository_url"] when empty.
	RepoURL string
	// Branch defaults to "main" when empty.
	Branch string
	// BookPath is the book directory inside the repository, "" or ending in "/".
	BookPath string
}

// Page identifies the page being rendered.
type Page struct {
	// Name is the document name relative to the source directory, without extension.
	Name string
	// SourcePath is the page's source file on disk.
	SourcePath string
}

// RepoInfo is a repository URL split into its parts.
type RepoInfo struct {
	Org  string
	Repo string
}

// ParseRepoURL splits "https://host/org/repo[.git]" into its parts. Missing
// parts are returned empty.
func ParseRepoURL(raw string) RepoInfo {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return RepoInfo{}
	}

	var info RepoInfo
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 {
		info.Org = parts[0]
	}
	if len(parts) > 1 {
		info.Repo = strings.TrimSuffix(parts[1], ".git")
	}
	return info
}

// AddJupyterHubButtons appends one launch button per configured hub server
// to the page's launch button list, replacing the first default JupyterHub
// entry. It reports whether the list was modified. Pages without header
// buttons, without a launch list or without repository information are left
// untouched.
func AddJupyterHubButtons(ctx Context, page Page, settings LaunchSettings) bool {
	if len(settings.Servers) == 0 {
		return false
	}
	if _, ok := ctx["header_buttons"]; !ok {
		return false
	}

	owner, key, ok := findLaunchList(ctx)
	if !ok {
		return false
	}

	repoURL := settings.RepoURL
	if repoURL == "" {
		repoURL, _ = ctx["theme_repository_url"].(string)
	}
	info := ParseRepoURL(repoURL)
	if info.Org == "" && info.Repo == "" {
		return false
	}

	branch := settings.Branch
	if branch == "" {
		branch = "main"
	}
	uiPrefix, ok := interfacePrefixes[settings.NotebookInterface]
	if !ok {
		uiPrefix = interfacePrefixes["classic"]
	}
	urlPath := uiPrefix + "/" + info.Repo + "/" + settings.BookPath + page.Name + pageExtension(page.SourcePath)

	list, _ := owner[key].([]any)
	list = removeDefaultHub(list)

	for _, server := range settings.Servers {
		serverURL := strings.Trim(server.URL, "/")
		if serverURL == "" {
			continue
		}
		text := sanitizeLabel(server.Text)

		list = append(list, map[string]any{
			"type":    "link",
			"text":    text,
			"tooltip": "Launch on " + text,
			"icon":    hubIcon,
			"url": serverURL + "/hub/user-redirect/git-pull?" + encodeQuery(
				[2]string{"repo", repoURL},
				[2]string{"urlpath", urlPath},
				[2]string{"branch", branch},
			),
		})
	}

	owner[key] = list
	return true
}

// findLaunchList locates the launch button list: the header dropdown or
// group whose tooltip mentions Launch, else ctx["launch_buttons"].
func findLaunchList(ctx Context) (map[string]any, string, bool) {
	headers, _ := ctx["header_buttons"].([]any)
	for _, h := range headers {
		button, ok := h.(map[string]any)
		if !ok {
			continue
		}
		kind, _ := button["type"].(string)
		tooltip, _ := button["tooltip"].(string)
		if (kind == "dropdown" || kind == "group") && strings.Contains(tooltip, "Launch") {
			return button, "buttons", true
		}
	}

	if _, ok := ctx["launch_buttons"]; ok {
		return ctx, "launch_buttons", true
	}
	return nil, "", false
}

func removeDefaultHub(list []any) []any {
	for i, b := range list {
		if button, ok := b.(map[string]any); ok && button["text"] == DefaultHubText {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// pageExtension prefers .ipynb when a notebook sits next to the source file.
func pageExtension(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	if ext == ".ipynb" || sourcePath == "" {
		return ext
	}
	if _, err := os.Stat(strings.TrimSuffix(sourcePath, ext) + ".ipynb"); err == nil {
		return ".ipynb"
	}
	return ext
}

func sanitizeLabel(text string) string {
	clean := strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(text)))
	if clean == "" {
		return DefaultHubText
	}
	return clean
}

// encodeQuery form-encodes pairs in order, leaving "/" unescaped.
func encodeQuery(pairs ...[2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, escapeKeepSlash(p[0])+"="+escapeKeepSlash(p[1]))
	}
	return strings.Join(parts, "&")
}

func escapeKeepSlash(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2F", "/")
}
