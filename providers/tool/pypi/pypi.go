package pypi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
)

const (
	// ToolName is the name get_library_info is advertised under.
	ToolName = "get_library_info"
	// DefaultBaseURL is the PyPI JSON API root.
	DefaultBaseURL = "https://pypi.org/pypi"
	// ProjectPageURL prefixes the human project page of a package.
	ProjectPageURL = "https://pypi.org/project/"
	// MaxDescriptionRunes bounds the long description excerpt.
	MaxDescriptionRunes = 500
	// Service names the upstream in failure messages.
	Service = "PyPI"
)

// validName follows the PEP 508 distribution name grammar.
var validName = regexp.MustCompile(`(?i)^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)

// homepageKeys are the project_urls labels tried, in order, when home_page is unset.
var homepageKeys = []string{"Homepage", "homepage", "Home", "Home Page", "Documentation", "Source", "Repository"}

// LibraryInfo is the metadata of one package. Fields PyPI leaves empty are omitted.
type LibraryInfo struct {
	Name           string            `json:"name" jsonschema:"description=Canonical package name"`
	Version        string            `json:"version" jsonschema:"description=Latest released version"`
	Summary        string            `json:"summary,omitempty" jsonschema:"description=One line summary"`
	Author         string            `json:"author,omitempty"`
	AuthorEmail    string            `json:"author_email,omitempty"`
	License        string            `json:"license,omitempty"`
	HomePage       string            `json:"home_page,omitempty"`
	RequiresPython string            `json:"requires_python,omitempty"`
	PackageURL     string            `json:"package_url" jsonschema:"description=PyPI project page"`
	ProjectURLs    map[string]string `json:"project_urls,omitempty"`
	Description    string            `json:"description,omitempty" jsonschema:"description=Start of the long description (at most 500 characters)"`
}

type response struct {
	Info struct {
		Name              string            `json:"name"`
		Version           string            `json:"version"`
		Summary           string            `json:"summary"`
		Author            string            `json:"author"`
		AuthorEmail       string            `json:"author_email"`
		License           string            `json:"license"`
		LicenseExpression string            `json:"license_expression"`
		HomePage          string            `json:"home_page"`
		RequiresPython    string            `json:"requires_python"`
		ProjectURLs       map[string]string `json:"project_urls"`
		Description       string            `json:"description"`
	} `json:"info"`
}

// Client reads package metadata from the PyPI JSON API.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL replaces DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewClient builds a Client issuing requests through fetcher.
func NewClient(fetcher *fetch.Fetcher, opts ...Option) *Client {
	c := &Client{fetcher: fetcher, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input is the get_library_info argument set.
type Input struct {
	LibraryName string `json:"library_name" jsonschema:"description=Python package name as published on PyPI"`
}

// Output is the get_library_info result. Library is set only on success.
type Output struct {
	result.Outcome
	Library *LibraryInfo `json:"library,omitempty"`
}

// NewTool exposes client.Info as the get_library_info tool.
func NewTool(client *Client) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		ToolName,
		client.Info,
		tool.WithDescription("Get information about a Python library from PyPI: version, summary, author, license, links and the start of its description."),
	)
}

// Info runs get_library_info. An unknown package is empty_result; upstream
// failures are reported in the Outcome and the returned error is always nil.
func (c *Client) Info(ctx context.Context, input Input) (Output, error) {
	name := strings.TrimSpace(input.LibraryName)
	call := status.Begin(ctx, ToolName, "Getting info for: "+result.BoundQuery(name))
	call.Progress("Fetching from PyPI...")

	var out Output
	switch {
	case name == "":
		out.Outcome = result.Failed(result.KindEmpty, Service, 0)
	case !validName.MatchString(name):
		out.Outcome = result.Failed(result.KindInvalidInput, Service, 0)
	}
	if out.Status != "" {
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	info, err := c.Lookup(ctx, name)
	out.Outcome = result.FromError(err, Service)
	if err == nil {
		out.Library = info
	}
	call.Finish(out.Outcome, 1, "Retrieved library info")
	return out, nil
}

// Lookup fetches and normalises the metadata of name. A 404 from PyPI is
// reported as empty_result.
func (c *Client) Lookup(ctx context.Context, name string) (*LibraryInfo, error) {
	var resp response
	res := c.fetcher.GetJSON(ctx, c.baseURL+"/"+url.PathEscape(name)+"/json", &resp)
	if !res.OK() {
		if errors.Is(res.Err, &result.Error{Kind: result.KindHTTP, StatusCode: http.StatusNotFound}) {
			return nil, result.Errorf(result.KindEmpty, "package %q not found on PyPI", name)
		}
		return nil, res.Err
	}
	if resp.Info.Name == "" {
		return nil, result.Errorf(result.KindParse, "PyPI response for %q has no package name", name)
	}
	return toLibraryInfo(resp), nil
}

func toLibraryInfo(resp response) *LibraryInfo {
	info := resp.Info

	license := strings.TrimSpace(info.LicenseExpression)
	if license == "" {
		license = strings.TrimSpace(info.License)
	}
	// Some packages paste the whole license text here.
	license = utils.TruncateRunes(firstLine(license), result.MaxTitleRunes)

	home := strings.TrimSpace(info.HomePage)
	if home == "" {
		for _, key := range homepageKeys {
			if u := strings.TrimSpace(info.ProjectURLs[key]); u != "" {
				home = u
				break
			}
		}
	}

	var projectURLs map[string]string
	if len(info.ProjectURLs) > 0 {
		projectURLs = make(map[string]string, len(info.ProjectURLs))
		for k, v := range info.ProjectURLs {
			projectURLs[utils.TruncateRunes(k, result.MaxTitleRunes)] = result.BoundURL(v)
		}
	}

	return &LibraryInfo{
		Name:           utils.TruncateRunes(info.Name, result.MaxTitleRunes),
		Version:        utils.TruncateRunes(info.Version, result.MaxTitleRunes),
		Summary:        utils.TruncateRunes(strings.TrimSpace(info.Summary), result.MaxSnippetRunes),
		Author:         utils.TruncateRunes(strings.TrimSpace(info.Author), result.MaxTitleRunes),
		AuthorEmail:    utils.TruncateRunes(strings.TrimSpace(info.AuthorEmail), result.MaxTitleRunes),
		License:        license,
		HomePage:       result.BoundURL(home),
		RequiresPython: utils.TruncateRunes(info.RequiresPython, result.MaxTitleRunes),
		PackageURL:     ProjectPageURL + url.PathEscape(info.Name) + "/",
		ProjectURLs:    projectURLs,
		Description:    utils.TruncateRunes(strings.TrimSpace(info.Description), MaxDescriptionRunes),
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
