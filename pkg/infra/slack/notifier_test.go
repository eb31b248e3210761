package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	slackinfra "github.com/m-mizutani/bumpwatch/pkg/infra/slack"
)

func TestNotifier_Notify(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	report := &model.Report{
		Repo:        model.Repository{Owner: "octo", Name: "hello"},
		Aggregation: model.NewAggregation(),
		Open:        []model.Row{{PR: model.PullRequest{Number: 1}}},
		Priority: []model.Row{{
			PR:     model.PullRequest{Number: 1, URL: "https://github.com/octo/hello/pull/1"},
			Update: model.ParsedUpdate{Package: "lodash"},
			Class:  model.UpdatePatch,
			Risk:   model.Risk{Level: model.RiskLow},
		}},
	}

	n := slackinfra.New(server.URL)
	gt.NoError(t, n.Notify(context.Background(), report, []string{"gs://bucket/report.pdf"}))
	gt.Equal(t, received["text"], any("Dependency update report for octo/hello"))
	gt.Value(t, received["blocks"]).NotNil()
}

func TestNotifier_Notify_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	report := &model.Report{Aggregation: model.NewAggregation()}
	gt.Error(t, slackinfra.New(server.URL).Notify(context.Background(), report, nil))
}
