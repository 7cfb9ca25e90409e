package confluence

// Page is the flattened projection of a Confluence content item.
type Page struct {
	ID        string
	Title     string
	Type      string
	Status    string
	SpaceKey  string
	SpaceName string
	URL       string
	Created   string
	Updated   string
	Creator   string
	Excerpt   string
	Labels    []string
}

// contentItem is the wire shape of a content result with the expansions
// requested by defaultExpand.
type contentItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Space  *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"space"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
	History *struct {
		CreatedDate string `json:"createdDate"`
		LastUpdated *struct {
			When string `json:"when"`
		} `json:"lastUpdated"`
		CreatedBy *struct {
			DisplayName string `json:"displayName"`
		} `json:"createdBy"`
	} `json:"history"`
	Body *struct {
		View *struct {
			Value string `json:"value"`
		} `json:"view"`
	} `json:"body"`
	Metadata *struct {
		Labels *struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"labels"`
	} `json:"metadata"`
}

func (c contentItem) toPage(baseURL string) Page {
	page := Page{
		ID:     c.ID,
		Title:  c.Title,
		Type:   c.Type,
		Status: c.Status,
	}
	if c.Space != nil {
		page.SpaceKey = c.Space.Key
		page.SpaceName = c.Space.Name
	}
	if c.Links.WebUI != "" {
		page.URL = baseURL + c.Links.WebUI
	}
	if c.History != nil {
		page.Created = c.History.CreatedDate
		if c.History.LastUpdated != nil {
			page.Updated = c.History.LastUpdated.When
		}
		if c.History.CreatedBy != nil {
			page.Creator = c.History.CreatedBy.DisplayName
		}
	}
	if c.Body != nil && c.Body.View != nil {
		page.Excerpt = extractExcerpt(c.Body.View.Value, excerptMaxLength)
	}
	if c.Metadata != nil && c.Metadata.Labels != nil {
		for _, label := range c.Metadata.Labels.Results {
			page.Labels = append(page.Labels, label.Name)
		}
	}
	return page
}
