package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
	"github.com/atlascrm/atlas_backend/utils"
)

const penaltyAppendRetries = 3

// CommissionService runs the OTE calculation pipeline and the
// event-triggered early-churn penalty application.
type CommissionService struct {
	db        *mongo.Database
	oteModels *repositories.OTEModelRepository
	calcs     *repositories.OTERepository
	audit     *utils.AuditLogger
}

func NewCommissionService(db *mongo.Database, audit *utils.AuditLogger) *CommissionService {
	return &CommissionService{
		db:        db,
		oteModels: repositories.NewOTEModelRepository(db),
		calcs:     repositories.NewOTERepository(db),
		audit:     audit,
	}
}

// EarlyChurnPenaltyAmount computes one penalty:
// monthly_value x rate/100 x multiplier x penalty_percentage/100.
func EarlyChurnPenaltyAmount(monthlyValue, variableRate, multiplier, penaltyPct float64) float64 {
	return monthlyValue * variableRate / 100 * multiplier * penaltyPct / 100
}

// SumPenalties derives the total from the ledger. The total is never
// stored independently of the entries that make it up.
func SumPenalties(entries []models.PenaltyEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// HasPenaltyForContract reports whether the ledger already carries an
// entry for the contract. At most one penalty per contract id may ever
// exist; the applier refuses a second append instead of double-counting.
func HasPenaltyForContract(entries []models.PenaltyEntry, contractID primitive.ObjectID) bool {
	for _, e := range entries {
		if e.ContractID == contractID {
			return true
		}
	}
	return false
}

// ComputeOTE is the pure commission calculation for one (seller, period):
// MRR sold, achievement, accelerator, variable commission, the early-churn
// penalty ledger, and the expected/realized/difference OTE figures.
// churnDates maps cancelled client ids to their observed churn date.
func ComputeOTE(model models.OTEModel, sellerID primitive.ObjectID, period string, contracts []models.Contract, churnDates map[primitive.ObjectID]time.Time, now time.Time) models.OTECalculation {
	var mrrSold float64
	contractIDs := make([]primitive.ObjectID, 0, len(contracts))
	for _, c := range contracts {
		mrrSold += c.MonthlyValue
		contractIDs = append(contractIDs, c.ID)
	}

	achievement := mrrSold / model.MonthlyTarget * 100
	base := mrrSold * model.VariableCommissionRate / 100
	multiplier := SelectAccelerator(model.Accelerators, achievement)
	final := base * multiplier

	penalties := []models.PenaltyEntry{}
	for _, c := range contracts {
		churnedAt, churned := churnDates[c.ClientID]
		if !churned {
			continue
		}
		days := utils.DaysBetween(c.StartDate, churnedAt)
		if days > model.EarlyChurnPeriodDays {
			continue
		}
		penalties = append(penalties, models.PenaltyEntry{
			EntryID:        uuid.NewString(),
			ContractID:     c.ID,
			ClientID:       c.ClientID,
			Amount:         EarlyChurnPenaltyAmount(c.MonthlyValue, model.VariableCommissionRate, multiplier, model.EarlyChurnPenaltyPercent),
			DaysSinceStart: days,
			AppliedAt:      now,
		})
	}
	penaltiesTotal := SumPenalties(penalties)

	expected := model.FixedCommission + model.MonthlyTarget*model.VariableCommissionRate/100
	realized := model.FixedCommission + final - penaltiesTotal

	return models.OTECalculation{
		SellerID:                sellerID,
		Period:                  period,
		ModelID:                 model.ID,
		MRRSold:                 mrrSold,
		TargetAchievementPct:    achievement,
		AcceleratorApplied:      multiplier,
		VariableCommissionBase:  base,
		VariableCommissionFinal: final,
		FixedCommission:         model.FixedCommission,
		Penalties:               penalties,
		PenaltiesTotal:          penaltiesTotal,
		OTEExpected:             expected,
		OTERealized:             realized,
		OTEDifference:           realized - expected,
		ContractIDs:             contractIDs,
		CalculatedAt:            now,
	}
}

// CalculateOTE runs the full commission pipeline for one seller and
// period and upserts the result by its natural key.
func (s *CommissionService) CalculateOTE(ctx context.Context, actorID, sellerID, period string) (*models.OTECalculation, error) {
	if sellerID == "" || period == "" {
		return nil, fmt.Errorf("%w: seller_id and period are required", ErrInvalidArgument)
	}
	sellerObjID, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid seller_id format", ErrInvalidArgument)
	}
	periodStart, periodEnd, err := utils.ParsePeriod(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	model, err := s.oteModels.ResolveForSeller(ctx, sellerObjID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: no commission model for seller %s", ErrNotFound, sellerID)
	}
	if model.MonthlyTarget <= 0 {
		return nil, fmt.Errorf("%w: commission model %s has no monthly target", ErrInvalidConfiguration, model.ID.Hex())
	}

	// Period contracts: active, started inside the calendar month.
	cursor, err := s.db.Collection("contracts").Find(ctx, bson.M{
		"sellerId":  sellerObjID,
		"status":    models.ContractStatusActive,
		"startDate": bson.M{"$gte": periodStart, "$lt": periodEnd},
	})
	if err != nil {
		return nil, err
	}
	var contracts []models.Contract
	if err := cursor.All(ctx, &contracts); err != nil {
		return nil, err
	}

	churnDates, err := s.churnDatesFor(ctx, contracts)
	if err != nil {
		return nil, err
	}

	calc := ComputeOTE(*model, sellerObjID, period, contracts, churnDates, time.Now())

	if err := s.calcs.Upsert(ctx, &calc); err != nil {
		return nil, err
	}

	s.audit.Record("ote.calculated", actorID, sellerID, bson.M{
		"period":      period,
		"mrrSold":     calc.MRRSold,
		"oteRealized": calc.OTERealized,
	})

	return &calc, nil
}

// churnDatesFor resolves the cancelled clients behind the period
// contracts and the date each churn was observed.
func (s *CommissionService) churnDatesFor(ctx context.Context, contracts []models.Contract) (map[primitive.ObjectID]time.Time, error) {
	churnDates := make(map[primitive.ObjectID]time.Time)
	if len(contracts) == 0 {
		return churnDates, nil
	}

	clientIDs := make([]primitive.ObjectID, 0, len(contracts))
	for _, c := range contracts {
		clientIDs = append(clientIDs, c.ClientID)
	}

	cursor, err := s.db.Collection("clients").Find(ctx, bson.M{
		"_id":    bson.M{"$in": clientIDs},
		"status": models.ClientStatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	var cancelled []models.Client
	if err := cursor.All(ctx, &cancelled); err != nil {
		return nil, err
	}

	for _, c := range cancelled {
		if c.ChurnedAt != nil {
			churnDates[c.ID] = *c.ChurnedAt
		} else {
			churnDates[c.ID] = c.UpdatedAt
		}
	}
	return churnDates, nil
}

// ApplyChurnPenalty is the event-triggered pipeline: it appends one
// early-churn penalty to the already-persisted calculation for the
// contract's start period. It recomputes only the ledger-derived figures
// from the stored fixed and final variable commission; accelerator and
// MRR are not re-validated.
func (s *CommissionService) ApplyChurnPenalty(ctx context.Context, actorID, contractID, clientID string) (*models.ChurnPenaltyResponse, error) {
	if contractID == "" || clientID == "" {
		return nil, fmt.Errorf("%w: contract_id and client_id are required", ErrInvalidArgument)
	}
	contractObjID, err := primitive.ObjectIDFromHex(contractID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid contract_id format", ErrInvalidArgument)
	}
	clientObjID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client_id format", ErrInvalidArgument)
	}

	var contract models.Contract
	err = s.db.Collection("contracts").FindOne(ctx, bson.M{"_id": contractObjID}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientObjID {
		return nil, fmt.Errorf("%w: contract does not belong to client", ErrInvalidArgument)
	}

	var client models.Client
	err = s.db.Collection("clients").FindOne(ctx, bson.M{"_id": clientObjID}).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	if err != nil {
		return nil, err
	}
	if client.Status != models.ClientStatusCancelled {
		return &models.ChurnPenaltyResponse{
			Applied: false,
			Message: "client is not cancelled",
		}, nil
	}

	model, err := s.oteModels.ResolveForSeller(ctx, contract.SellerID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: no commission model for seller %s", ErrNotFound, contract.SellerID.Hex())
	}

	churnDate := time.Now()
	if client.ChurnedAt != nil {
		churnDate = *client.ChurnedAt
	}
	days := utils.DaysBetween(contract.StartDate, churnDate)
	if days > model.EarlyChurnPeriodDays {
		return &models.ChurnPenaltyResponse{
			Applied:        false,
			DaysSinceStart: days,
			Message:        "churn is outside the early-churn window",
		}, nil
	}

	period := utils.PeriodOf(contract.StartDate)

	for attempt := 0; attempt < penaltyAppendRetries; attempt++ {
		calc, err := s.calcs.FindBySellerAndPeriod(ctx, contract.SellerID, period)
		if err != nil {
			return nil, err
		}
		if calc == nil {
			log.Printf("churn penalty dropped: no OTE calculation for seller %s period %s", contract.SellerID.Hex(), period)
			return &models.ChurnPenaltyResponse{
				Applied: false,
				Message: fmt.Sprintf("no OTE calculation exists for period %s", period),
			}, nil
		}

		if HasPenaltyForContract(calc.Penalties, contractObjID) {
			return &models.ChurnPenaltyResponse{
				Applied: false,
				Message: "penalty already recorded for this contract",
			}, nil
		}

		entry := models.PenaltyEntry{
			EntryID:        uuid.NewString(),
			ContractID:     contractObjID,
			ClientID:       clientObjID,
			Amount:         EarlyChurnPenaltyAmount(contract.MonthlyValue, model.VariableCommissionRate, calc.AcceleratorApplied, model.EarlyChurnPenaltyPercent),
			DaysSinceStart: days,
			AppliedAt:      time.Now(),
		}

		penaltiesTotal := SumPenalties(calc.Penalties) + entry.Amount
		realized := calc.FixedCommission + calc.VariableCommissionFinal - penaltiesTotal
		difference := realized - calc.OTEExpected

		ok, err := s.calcs.AppendPenalty(ctx, calc.ID, calc.Version, entry, penaltiesTotal, realized, difference)
		if err != nil {
			return nil, err
		}
		if !ok {
			// version moved under us, reread and retry
			continue
		}

		s.audit.Record("ote.penalty_applied", actorID, contract.SellerID.Hex(), bson.M{
			"period":        period,
			"contractId":    contractID,
			"penaltyAmount": entry.Amount,
		})

		return &models.ChurnPenaltyResponse{
			Applied:        true,
			PenaltyAmount:  entry.Amount,
			DaysSinceStart: days,
		}, nil
	}

	return nil, repositories.ErrConcurrentUpdate
}
