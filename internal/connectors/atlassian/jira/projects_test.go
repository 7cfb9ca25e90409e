package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/worklink/internal/connectors/atlassian"
)

func TestClient_Projects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": "10000", "key": "PROJ", "name": "Main Project"},
			{"id": "10001", "key": "OPS", "name": "Operations"}
		]`)
	})

	client := newTestClient(t, mux)
	projects, err := client.Projects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, Project{ID: "10000", Key: "PROJ", Name: "Main Project"}, projects[0])
	assert.Equal(t, Project{ID: "10001", Key: "OPS", Name: "Operations"}, projects[1])
}

func TestClient_Project(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/PROJ", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "10000",
			"key": "PROJ",
			"name": "Main Project",
			"description": "The main line of work",
			"lead": {"accountId": "acc-1", "displayName": "Alice"}
		}`)
	})

	client := newTestClient(t, mux)
	project, err := client.Project(context.Background(), "PROJ")

	require.NoError(t, err)
	assert.Equal(t, "PROJ", project.Key)
	assert.Equal(t, "Main Project", project.Name)
	assert.Equal(t, "The main line of work", project.Description)
	assert.Equal(t, "Alice", project.Lead.DisplayName)
}

func TestClient_Project_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/NOPE", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errorMessages": ["No project could be found"]}`, http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	_, err := client.Project(context.Background(), "NOPE")

	require.Error(t, err)
	assert.True(t, atlassian.IsNotFound(err))
}

func TestClient_IssueTypes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issuetype", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": "1", "name": "Bug", "description": "A problem", "subtask": false},
			{"id": "5", "name": "Sub-task", "description": "", "subtask": true}
		]`)
	})

	client := newTestClient(t, mux)
	types, err := client.IssueTypes(context.Background())

	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Bug", types[0].Name)
	assert.True(t, types[1].Subtask)
}

func TestClient_Components(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/PROJ/components", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{
				"id": "10050",
				"name": "Backend",
				"description": "API services",
				"assigneeType": "COMPONENT_LEAD",
				"isAssigneeTypeValid": true,
				"lead": {"accountId": "acc-1", "displayName": "Mia Krystof"}
			},
			{"id": "10051", "name": "Frontend", "assigneeType": "UNASSIGNED"}
		]`)
	})

	client := newTestClient(t, mux)
	components, err := client.Components(context.Background(), "PROJ")

	require.NoError(t, err)
	require.Len(t, components, 2)

	assert.Equal(t, "Backend", components[0].Name)
	assert.Equal(t, "Mia Krystof", components[0].Lead)
	assert.Equal(t, "acc-1", components[0].LeadAccountID)
	assert.Equal(t, "PROJ", components[0].ProjectKey)

	assert.Equal(t, "Frontend", components[1].Name)
	assert.Empty(t, components[1].Lead)
}

func TestClient_CreateComponent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/component", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PROJ", body["project"])
		assert.Equal(t, "Billing", body["name"])
		assert.Equal(t, "UNASSIGNED", body["assigneeType"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "10060", "name": "Billing", "assigneeType": "UNASSIGNED"}`)
	})

	client := newTestClient(t, mux)
	component, err := client.CreateComponent(context.Background(), ComponentRequest{
		ProjectKey: "PROJ",
		Name:       "Billing",
	})

	require.NoError(t, err)
	assert.Equal(t, "10060", component.ID)
	assert.Equal(t, "Billing", component.Name)
}

func TestClient_UpdateComponent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/component/10060", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Payments", body["name"])
		// Unset fields must not be sent, or they would be cleared.
		assert.NotContains(t, body, "description")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "10060", "name": "Payments"}`)
	})

	client := newTestClient(t, mux)
	component, err := client.UpdateComponent(context.Background(), "10060", ComponentRequest{Name: "Payments"})

	require.NoError(t, err)
	assert.Equal(t, "Payments", component.Name)
}

func TestClient_CustomFields_SampledFromIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/field", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": "summary", "name": "Summary", "custom": false},
			{"id": "customfield_10011", "name": "Epic Name", "custom": true,
				"navigable": true, "searchable": true,
				"clauseNames": ["cf[10011]", "Epic Name"],
				"schema": {"type": "string", "custom": "epic-label"}},
			{"id": "customfield_10020", "name": "Sprint", "custom": true,
				"schema": {"type": "array"}}
		]`)
	})
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "project = PROJ", r.URL.Query().Get("jql"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"startAt": 0, "maxResults": 50, "total": 1,
			"issues": [
				{"key": "PROJ-1", "fields": {
					"summary": "First",
					"customfield_10011": "Launch epic",
					"customfield_10020": null
				}}
			]
		}`)
	})

	client := newTestClient(t, mux)
	fields, err := client.CustomFields(context.Background(), "PROJ")

	require.NoError(t, err)
	// Sprint carries no value in any sampled issue, so only Epic Name is in use.
	require.Len(t, fields, 1)
	assert.Equal(t, "customfield_10011", fields[0].ID)
	assert.Equal(t, "Epic Name", fields[0].Name)
	assert.Equal(t, "string", fields[0].FieldType)
}

func TestClient_CustomFields_NoIssuesReturnsAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/field", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": "customfield_10011", "name": "Epic Name", "custom": true},
			{"id": "customfield_10020", "name": "Sprint", "custom": true}
		]`)
	})
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"startAt": 0, "maxResults": 50, "total": 0, "issues": []}`)
	})

	client := newTestClient(t, mux)
	fields, err := client.CustomFields(context.Background(), "PROJ")

	require.NoError(t, err)
	assert.Len(t, fields, 2)
}
