package overlay

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/shared"
)

// MergeUser applies a patch on top of a base user. Scalar fields win per
// field when the patch sets them. The address and company groups are merged
// sub-field by sub-field: a patch touching only City must not erase State.
// A group absent on both sides stays absent in the result.
func MergeUser(base models.User, p models.UserPatch) models.User {
	next := base

	if p.FirstName != nil {
		next.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		next.LastName = *p.LastName
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Phone != nil {
		next.Phone = *p.Phone
	}
	if p.Username != nil {
		next.Username = *p.Username
	}
	if p.Password != nil {
		next.Password = *p.Password
	}
	if p.Image != nil {
		next.Image = *p.Image
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.Gender != nil {
		next.Gender = *p.Gender
	}
	if p.Age != nil {
		next.Age = *p.Age
	}

	if base.Address != nil || p.Address != nil {
		next.Address = mergeAddress(base.Address, p.Address)
	}
	if base.Company != nil || p.Company != nil {
		next.Company = mergeCompany(base.Company, p.Company)
	}

	return next
}

func mergeAddress(base *models.Address, p *models.AddressPatch) *models.Address {
	merged := models.Address{}
	if base != nil {
		merged = *base
	}
	if p != nil {
		if p.Street != nil {
			merged.Street = *p.Street
		}
		if p.City != nil {
			merged.City = *p.City
		}
		if p.State != nil {
			merged.State = *p.State
		}
		if p.PostalCode != nil {
			merged.PostalCode = *p.PostalCode
		}
	}
	return &merged
}

func mergeCompany(base *models.Company, p *models.CompanyPatch) *models.Company {
	merged := models.Company{}
	if base != nil {
		merged = *base
	}
	if p != nil {
		if p.Name != nil {
			merged.Name = *p.Name
		}
		if p.Title != nil {
			merged.Title = *p.Title
		}
		if p.Department != nil {
			merged.Department = *p.Department
		}
	}
	return &merged
}

// MergePatch combines two patches into one: fields set by next win, fields
// set only by prev survive. Patches accumulate against each other before
// they are ever applied to a base entity.
func MergePatch(prev, next models.UserPatch) models.UserPatch {
	out := prev

	if next.FirstName != nil {
		out.FirstName = next.FirstName
	}
	if next.LastName != nil {
		out.LastName = next.LastName
	}
	if next.Email != nil {
		out.Email = next.Email
	}
	if next.Phone != nil {
		out.Phone = next.Phone
	}
	if next.Username != nil {
		out.Username = next.Username
	}
	if next.Password != nil {
		out.Password = next.Password
	}
	if next.Image != nil {
		out.Image = next.Image
	}
	if next.Role != nil {
		out.Role = next.Role
	}
	if next.Gender != nil {
		out.Gender = next.Gender
	}
	if next.Age != nil {
		out.Age = next.Age
	}

	if next.Address != nil {
		if prev.Address == nil {
			out.Address = next.Address
		} else {
			merged := *prev.Address
			if next.Address.Street != nil {
				merged.Street = next.Address.Street
			}
			if next.Address.City != nil {
				merged.City = next.Address.City
			}
			if next.Address.State != nil {
				merged.State = next.Address.State
			}
			if next.Address.PostalCode != nil {
				merged.PostalCode = next.Address.PostalCode
			}
			out.Address = &merged
		}
	}
	if next.Company != nil {
		if prev.Company == nil {
			out.Company = next.Company
		} else {
			merged := *prev.Company
			if next.Company.Name != nil {
				merged.Name = next.Company.Name
			}
			if next.Company.Title != nil {
				merged.Title = next.Company.Title
			}
			if next.Company.Department != nil {
				merged.Department = next.Company.Department
			}
			out.Company = &merged
		}
	}

	return out
}

// ApplyToList reconciles a server-fetched collection with the overlay:
// patched server entities first get their patches applied, locally deleted
// ids are dropped, and locally created entities are prepended (newest first)
// unless an entity with the same id is already present.
func ApplyToList(users []models.User, s Store) []models.User {
	filtered := make([]models.User, 0, len(users)+len(s.Created))
	seen := make(map[int64]struct{}, len(users))

	for _, u := range users {
		if s.IsDeleted(u.ID) {
			continue
		}
		if p, ok := s.Patches[u.ID]; ok {
			u = MergeUser(u, p)
		}
		filtered = append(filtered, u)
		seen[u.ID] = struct{}{}
	}

	ids := make([]int64, 0, len(s.Created))
	for id := range s.Created {
		if _, dup := seen[id]; dup {
			continue
		}
		ids = append(ids, id)
	}
	// created ids are millisecond timestamps, so descending id order is
	// most-recently-added first
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := make([]models.User, 0, len(ids)+len(filtered))
	for _, id := range ids {
		out = append(out, s.Created[id])
	}
	return append(out, filtered...)
}

// ApplyToUser reconciles a single server-fetched entity with the overlay.
// It fails with shared.ErrNotFound when the entity was deleted locally,
// regardless of what the server returned.
func ApplyToUser(u models.User, s Store) (models.User, error) {
	if s.IsDeleted(u.ID) {
		return models.User{}, fmt.Errorf("user %d was deleted locally: %w", u.ID, shared.ErrNotFound)
	}
	if p, ok := s.Patches[u.ID]; ok {
		return MergeUser(u, p), nil
	}
	return u, nil
}
