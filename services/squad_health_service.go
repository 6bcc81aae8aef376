package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
	"github.com/atlascrm/atlas_backend/utils"
)

// Squad factor names
const (
	FactorCapacity      = "capacity"
	FactorSLACompliance = "sla_compliance"
	FactorDemand        = "demand"
	FactorBacklog       = "backlog"
)

// SquadFacts is the aggregated window for one squad scoring run.
type SquadFacts struct {
	Squad            models.Squad
	ClientCount      int
	AtRiskClients    int     // clients whose live health status is not healthy
	OpenTickets      int     // tickets not completed
	AvgTicketAgeDays float64 // mean age of the open tickets
	RecentTickets    int     // tickets opened inside the trailing window
}

// SquadHealthService runs the squad health pipeline and its bulk variant.
type SquadHealthService struct {
	db      *mongo.Database
	scores  *repositories.ScoreRepository
	configs *repositories.ScoringConfigRepository
	audit   *utils.AuditLogger
}

func NewSquadHealthService(db *mongo.Database, audit *utils.AuditLogger) *SquadHealthService {
	return &SquadHealthService{
		db:      db,
		scores:  repositories.NewScoreRepository(db),
		configs: repositories.NewScoringConfigRepository(db),
		audit:   audit,
	}
}

// Squad factor policies, pure functions of the aggregated window.

func CapacityScore(currentCapacity, maxCapacity float64) float64 {
	if maxCapacity <= 0 {
		return 0
	}
	return Clamp(100 - currentCapacity/maxCapacity*100)
}

func SLAComplianceScore(totalClients, atRiskClients int) float64 {
	if totalClients == 0 {
		return 100
	}
	return Clamp(float64(totalClients-atRiskClients) / float64(totalClients) * 100)
}

func DemandScore(avgItemsPerDay float64) float64 {
	return Clamp(100 - avgItemsPerDay*2)
}

func BacklogScore(openCount int, avgAgeDays float64) float64 {
	return Clamp(100 - float64(openCount)*5 - avgAgeDays*0.5)
}

// ComputeSquadFactors turns aggregated facts into the four named
// sub-scores.
func ComputeSquadFactors(facts SquadFacts) map[string]float64 {
	avgPerDay := float64(facts.RecentTickets) / float64(activityWindowDays)
	return map[string]float64{
		FactorCapacity:      CapacityScore(facts.Squad.CurrentCapacity, facts.Squad.MaxCapacity),
		FactorSLACompliance: SLAComplianceScore(facts.ClientCount, facts.AtRiskClients),
		FactorDemand:        DemandScore(avgPerDay),
		FactorBacklog:       BacklogScore(facts.OpenTickets, facts.AvgTicketAgeDays),
	}
}

func (s *SquadHealthService) aggregateSquadFacts(ctx context.Context, squadID primitive.ObjectID) (*SquadFacts, error) {
	var squad models.Squad
	err := s.db.Collection("squads").FindOne(ctx, bson.M{"_id": squadID}).Decode(&squad)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: squad %s", ErrNotFound, squadID.Hex())
	}
	if err != nil {
		return nil, err
	}

	facts := &SquadFacts{Squad: squad}
	windowStart := time.Now().AddDate(0, 0, -activityWindowDays)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cursor, err := s.db.Collection("clients").Find(gctx, bson.M{"squadId": squadID})
		if err != nil {
			log.Printf("client fetch failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		var clients []models.Client
		if err := cursor.All(gctx, &clients); err != nil {
			log.Printf("client decode failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		facts.ClientCount = len(clients)

		ids := make([]primitive.ObjectID, len(clients))
		for i, c := range clients {
			ids[i] = c.ID
		}
		if len(ids) == 0 {
			return nil
		}
		n, err := s.db.Collection("clientHealthScores").CountDocuments(gctx, bson.M{
			"clientId":     bson.M{"$in": ids},
			"healthStatus": bson.M{"$ne": models.HealthStatusHealthy},
		})
		if err != nil {
			log.Printf("at-risk count failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		facts.AtRiskClients = int(n)
		return nil
	})

	g.Go(func() error {
		cursor, err := s.db.Collection("tickets").Find(gctx, bson.M{
			"squadId": squadID,
			"status":  bson.M{"$ne": models.TicketStatusCompleted},
		})
		if err != nil {
			log.Printf("open ticket fetch failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		var tickets []models.Ticket
		if err := cursor.All(gctx, &tickets); err != nil {
			log.Printf("open ticket decode failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		facts.OpenTickets = len(tickets)

		if len(tickets) > 0 {
			var totalAge float64
			now := time.Now()
			for _, t := range tickets {
				totalAge += now.Sub(t.CreatedAt).Hours() / 24
			}
			facts.AvgTicketAgeDays = totalAge / float64(len(tickets))
		}
		return nil
	})

	g.Go(func() error {
		n, err := s.db.Collection("tickets").CountDocuments(gctx, bson.M{
			"squadId":   squadID,
			"createdAt": bson.M{"$gte": windowStart},
		})
		if err != nil {
			log.Printf("recent ticket count failed for squad %s: %v", squadID.Hex(), err)
			return nil
		}
		facts.RecentTickets = int(n)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facts, nil
}

// CalculateSquadHealth runs the squad pipeline for one squad. Unlike the
// client instantiation, the weight map has no literal fallback: a missing
// squad_health config fails the run.
func (s *SquadHealthService) CalculateSquadHealth(ctx context.Context, actorID, squadID string) (*models.SquadHealthScore, error) {
	if squadID == "" {
		return nil, fmt.Errorf("%w: squad_id is required", ErrInvalidArgument)
	}
	objID, err := primitive.ObjectIDFromHex(squadID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid squad_id format", ErrInvalidArgument)
	}

	cfg, err := s.configs.FindByKind(ctx, models.ScoringKindSquadHealth)
	if err != nil {
		return nil, err
	}
	if cfg == nil || len(cfg.Weights) == 0 {
		return nil, fmt.Errorf("%w: squad_health scoring configuration", ErrNotFound)
	}

	facts, err := s.aggregateSquadFacts(ctx, objID)
	if err != nil {
		return nil, err
	}

	factorScores := ComputeSquadFactors(*facts)

	overall, err := WeightedOverall(factorScores, cfg.Weights)
	if err != nil {
		return nil, err
	}

	stretchedBelow := thresholdOr(cfg.Thresholds, "stretched", 50)
	healthyBelow := thresholdOr(cfg.Thresholds, "healthy", 70)
	status := ClassifyBands(overall, []Band{
		{Below: stretchedBelow, Status: models.SquadStatusOverloaded},
		{Below: healthyBelow, Status: models.SquadStatusStretched},
	}, models.SquadStatusHealthy)

	var previous *float64
	prior, err := s.scores.FindSquadHealth(ctx, objID)
	if err != nil {
		log.Printf("previous squad score fetch failed for squad %s: %v", squadID, err)
	} else if prior != nil {
		previous = &prior.OverallScore
	}

	score := &models.SquadHealthScore{
		SquadID:       objID,
		SquadName:     facts.Squad.Name,
		OverallScore:  overall,
		HealthStatus:  status,
		FactorScores:  factorScores,
		Trend:         Trend(previous, overall),
		PreviousScore: previous,
		RiskFactors:   buildSquadRiskFactors(*facts, factorScores),
		CalculatedAt:  time.Now(),
	}

	if err := s.scores.UpsertSquadHealth(ctx, score); err != nil {
		return nil, err
	}

	s.audit.Record("squad_health.calculated", actorID, squadID, bson.M{
		"overallScore": overall,
		"healthStatus": status,
	})

	return score, nil
}

// CalculateAllSquads recomputes every squad sequentially. One squad's
// failure is captured in the error list and never aborts the batch.
func (s *SquadHealthService) CalculateAllSquads(ctx context.Context, actorID string) (int, []models.SquadBulkError, error) {
	cursor, err := s.db.Collection("squads").Find(ctx, bson.M{})
	if err != nil {
		return 0, nil, err
	}
	var squads []models.Squad
	if err := cursor.All(ctx, &squads); err != nil {
		return 0, nil, err
	}

	processed := 0
	var bulkErrors []models.SquadBulkError
	for _, squad := range squads {
		if _, err := s.CalculateSquadHealth(ctx, actorID, squad.ID.Hex()); err != nil {
			bulkErrors = append(bulkErrors, models.SquadBulkError{
				SquadID:   squad.ID.Hex(),
				SquadName: squad.Name,
				Error:     err.Error(),
			})
			continue
		}
		processed++
	}

	return processed, bulkErrors, nil
}

func buildSquadRiskFactors(facts SquadFacts, factors map[string]float64) []string {
	riskFactors := []string{}
	if factors[FactorCapacity] < 30 {
		riskFactors = append(riskFactors, "squad capacity nearly exhausted")
	}
	if factors[FactorSLACompliance] < 70 {
		riskFactors = append(riskFactors, "multiple clients flagged at risk")
	}
	if factors[FactorDemand] < 50 {
		riskFactors = append(riskFactors, "incoming demand above sustainable volume")
	}
	if factors[FactorBacklog] < 50 {
		riskFactors = append(riskFactors, "backlog growing and aging")
	}
	return riskFactors
}

func thresholdOr(thresholds map[string]float64, key string, fallback float64) float64 {
	if v, ok := thresholds[key]; ok {
		return v
	}
	return fallback
}
