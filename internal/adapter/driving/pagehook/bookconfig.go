package pagehook

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// HubServer is one entry of launch_buttons.jupyterhub_servers.
type HubServer struct {
	URL  string `yaml:"url" json:"url"`
	Text string `yaml:"text" json:"text"`
}

// LaunchConfig is the launch_buttons section of a book configuration.
type LaunchConfig struct {
	NotebookInterface string      `yaml:"notebook_interface"`
	JupyterHubServers []HubServer `yaml:"jupyterhub_servers"`
}

func (l *LaunchConfig) empty() bool {
	return l == nil || (l.NotebookInterface == "" && len(l.JupyterHubServers) == 0)
}

// RepositoryConfig is the repository section of a book configuration.
type RepositoryConfig struct {
	URL        string `yaml:"url"`
	Branch     string `yaml:"branch"`
	PathToBook string `yaml:"path_to_book"`
}

// ThemeOptions is the subset of html_theme_options the hooks read.
type ThemeOptions struct {
	LaunchButtons    *LaunchConfig `yaml:"launch_buttons"`
	RepositoryURL    string        `yaml:"repository_url"`
	RepositoryBranch string        `yaml:"repository_branch"`
	PathToDocs       string        `yaml:"path_to_docs"`
}

// BookConfig is the subset of a Jupyter Book _config.yml used by the hooks.
type BookConfig struct {
	Repository    RepositoryConfig `yaml:"repository"`
	LaunchButtons LaunchConfig     `yaml:"launch_buttons"`
	Sphinx        struct {
		Config struct {
			HTMLThemeOptions ThemeOptions `yaml:"html_theme_options"`
		} `yaml:"config"`
	} `yaml:"sphinx"`
}

// LoadBookConfig reads a book configuration file.
func LoadBookConfig(path string) (*BookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading book config: %w", err)
	}
	return ParseBookConfig(data)
}

// ParseBookConfig decodes a book configuration document.
func ParseBookConfig(data []byte) (*BookConfig, error) {
	var cfg BookConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing book config: %w", err)
	}
	return &cfg, nil
}

func (c *BookConfig) theme() *ThemeOptions {
	return &c.Sphinx.Config.HTMLThemeOptions
}

// Launch returns the theme's launch_buttons when set, else the top-level one.
func (c *BookConfig) Launch() LaunchConfig {
	if lb := c.theme().LaunchButtons; !lb.empty() {
		return *lb
	}
	return c.LaunchButtons
}

// Branch returns the repository branch, defaulting to "main".
func (c *BookConfig) Branch() string {
	switch {
	case c.Repository.Branch != "":
		return c.Repository.Branch
	case c.theme().RepositoryBranch != "":
		return c.theme().RepositoryBranch
	default:
		return "main"
	}
}

// BookPath returns the book's directory inside the repository with a
// trailing slash, or "" when the book lives at the repository root.
func (c *BookConfig) BookPath() string {
	p := c.theme().PathToDocs
	if p == "" {
		p = c.Repository.PathToBook
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// RepositoryURL returns the theme repository_url, else repository.url.
func (c *BookConfig) RepositoryURL() string {
	if u := c.theme().RepositoryURL; u != "" {
		return u
	}
	return c.Repository.URL
}

// Settings assembles the launch-button settings for the hook.
func (c *BookConfig) Settings() LaunchSettings {
	launch := c.Launch()
	return LaunchSettings{
		Servers:           launch.JupyterHubServers,
		NotebookInterface: launch.NotebookInterface,
		RepoURL:           c.RepositoryURL(),
		Branch:            c.Branch(),
		BookPath:          c.BookPath(),
	}
}
