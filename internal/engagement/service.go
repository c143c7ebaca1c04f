package engagement

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
)

// Service applies status machine decisions and writes the audit trail. The
// database handle is injected at construction; the service holds no other
// state, so it is safe for concurrent use.
type Service struct {
	db *gorm.DB
}

func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb}
}

// ChangeStatus runs decide-then-commit for a bid the guard has already
// loaded. The bid update, the project update (when the decision touches the
// project) and the SELECTION tracking row are applied as one transaction,
// and the bid update is a compare-and-swap on the status pair that was read:
// if a concurrent transition won the race, the whole unit rolls back with
// ErrConflict instead of silently overwriting.
func (s *Service) ChangeStatus(ctx context.Context, bid *models.Bid, role types.Role, actorID uint, requested models.BidStatus) (Decision, error) {
	current := Current{
		BidderStatus:   bid.BidderStatus,
		CustomerStatus: bid.CustomerStatus,
	}

	decision, err := Decide(role, bid.ID, current, requested)

	if err != nil {
		return Decision{}, err
	}

	actorName := bid.Bidder.Username

	if role == types.RoleOwner {
		actorName = bid.Project.Owner.Username
	}

	message := fmt.Sprintf("@%s changed the status to %s", actorName, requested)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}

		if decision.BidderStatus != nil {
			updates["bidder_status"] = *decision.BidderStatus
		}

		if decision.CustomerStatus != nil {
			updates["customer_status"] = *decision.CustomerStatus
		}

		result := tx.Model(&models.Bid{}).
			Where("id = ? AND bidder_status = ? AND customer_status = ?",
				bid.ID, current.BidderStatus, current.CustomerStatus).
			Updates(updates)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrConflict
		}

		if decision.TouchesProject() {
			projectUpdates := map[string]interface{}{}

			if decision.ProjectStatus != nil {
				projectUpdates["status"] = *decision.ProjectStatus
			}

			if decision.SetSelectedBid {
				projectUpdates["selected_bid_id"] = decision.SelectedBidID
			}

			err := tx.Model(&models.Project{}).
				Where("id = ?", bid.ProjectID).
				Updates(projectUpdates).Error

			if err != nil {
				return err
			}
		}

		// Every committed decision lands as one SELECTION row, whatever
		// the target status; the message carries the detail.
		_, err := record(tx, bid.ID, actorID, message, models.TrackingSelection)
		return err
	})

	if err != nil {
		return Decision{}, err
	}

	return decision, nil
}

// Record appends one immutable tracking row. Chat messages between owner and
// bidder go through here too, so the whole engagement history lives in a
// single ordered log.
func (s *Service) Record(ctx context.Context, bidID, userID uint, message string, trackingType models.TrackingType) (*models.BidTracking, error) {
	return record(s.db.WithContext(ctx), bidID, userID, message, trackingType)
}

// History returns the tracking log for a bid, newest first, with each acting
// user preloaded.
func (s *Service) History(ctx context.Context, bidID uint) ([]models.BidTracking, error) {
	var trackings []models.BidTracking

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("bid_id = ?", bidID).
		Order("created_at DESC, id DESC").
		Find(&trackings).Error

	if err != nil {
		return nil, err
	}

	return trackings, nil
}

func record(tx *gorm.DB, bidID, userID uint, message string, trackingType models.TrackingType) (*models.BidTracking, error) {
	tracking := models.BidTracking{
		BidID:   bidID,
		UserID:  userID,
		Message: message,
		Type:    trackingType,
	}

	if err := tx.Create(&tracking).Error; err != nil {
		return nil, err
	}

	return &tracking, nil
}
