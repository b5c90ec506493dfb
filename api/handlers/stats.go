package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
)

// Stats exported for testing purposes
type Stats struct {
	HDB  databases.HiveDatabase
	IDB  databases.InspectionDatabase
	TDB  databases.TaskDatabase
	HrDB databases.HarvestDatabase
}

// ApiaryStats is the dashboard summary for one apiary
type ApiaryStats struct {
	TotalHives        int64            `json:"totalHives"`
	HivesByStatus     map[string]int64 `json:"hivesByStatus"`
	RecentInspections int64            `json:"recentInspections"`
	OpenTasks         int64            `json:"openTasks"`
	HoneyThisSeason   float64          `json:"honeyThisSeason"`
}

type statusCountResult struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type amountSumResult struct {
	ID    string  `bson:"_id"`
	Total float64 `bson:"total"`
}

// ApiaryStatsHandler returns the dashboard numbers for an apiary: hive counts
// by status, inspections in the last 30 days, open tasks and honey harvested
// since the start of the season (Jan 1).
func (s Stats) ApiaryStatsHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	stats := ApiaryStats{HivesByStatus: map[string]int64{}}

	totalHives, err := s.HDB.CountDocuments(ctx, bson.M{"apiaryId": apiaryID})
	if err != nil {
		config.ErrorStatus("failed to count hives", http.StatusInternalServerError, w, err)
		return
	}
	stats.TotalHives = totalHives

	statusPipeline := []bson.M{
		{"$match": bson.M{"apiaryId": apiaryID}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cur, err := s.HDB.Aggregate(ctx, statusPipeline)
	if err != nil {
		config.ErrorStatus("failed to aggregate hive statuses", http.StatusInternalServerError, w, err)
		return
	}
	var statusCounts []statusCountResult
	if err := cur.Decode(&statusCounts); err != nil {
		config.ErrorStatus("failed to decode hive statuses", http.StatusInternalServerError, w, err)
		return
	}
	for _, sc := range statusCounts {
		stats.HivesByStatus[sc.ID] = sc.Count
	}

	since := time.Now().Add(-30 * 24 * time.Hour)
	recentInspections, err := s.IDB.CountDocuments(ctx, bson.M{"apiaryId": apiaryID, "date": bson.M{"$gte": since}})
	if err != nil {
		config.ErrorStatus("failed to count inspections", http.StatusInternalServerError, w, err)
		return
	}
	stats.RecentInspections = recentInspections

	openTasks, err := s.TDB.CountDocuments(ctx, bson.M{"apiaryId": apiaryID, "completed": false})
	if err != nil {
		config.ErrorStatus("failed to count tasks", http.StatusInternalServerError, w, err)
		return
	}
	stats.OpenTasks = openTasks

	seasonStart := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	honeyPipeline := []bson.M{
		{"$match": bson.M{
			"apiaryId": apiaryID,
			"type":     models.HarvestTypeHoney,
			"date":     bson.M{"$gte": seasonStart},
		}},
		{"$group": bson.M{"_id": "$type", "total": bson.M{"$sum": "$amount"}}},
	}
	hcur, err := s.HrDB.Aggregate(ctx, honeyPipeline)
	if err != nil {
		config.ErrorStatus("failed to aggregate harvests", http.StatusInternalServerError, w, err)
		return
	}
	var honeyTotals []amountSumResult
	if err := hcur.Decode(&honeyTotals); err != nil {
		config.ErrorStatus("failed to decode harvests", http.StatusInternalServerError, w, err)
		return
	}
	if len(honeyTotals) > 0 {
		stats.HoneyThisSeason = honeyTotals[0].Total
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
