// Package economy implements gold and inventory transactions.
package economy

import (
	"fmt"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/domain"
)

// Purchase buys itemName from store for the adventurer. The store's catalog
// price is charged. On any error the adventurer is left untouched; on success
// gold is debited and a copy of the item is appended to the inventory. The
// store's catalog never changes.
func Purchase(store *actor.Store, itemName string, a *actor.Adventurer) error {
	if a == nil {
		return domain.ErrNoActiveAdventurer
	}
	if store == nil {
		return fmt.Errorf("%w: no store", domain.ErrItemNotAvailable)
	}

	item, ok := store.Item(itemName)
	if !ok {
		return fmt.Errorf("%w: %s does not sell %q", domain.ErrItemNotAvailable, store.Name, itemName)
	}
	if a.Gold < item.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", domain.ErrInsufficientFunds, item.Name, item.Cost, a.Gold)
	}

	a.Gold -= item.Cost
	a.Inventory = append(a.Inventory, item)
	return nil
}

// GrantReward adds amount gold. Negative amounts are ignored.
func GrantReward(a *actor.Adventurer, amount int) {
	if a == nil || amount <= 0 {
		return
	}
	a.Gold += amount
}

// CanAfford reports whether the adventurer has enough gold for item.
func CanAfford(a *actor.Adventurer, item actor.Item) bool {
	return a != nil && a.Gold >= item.Cost
}
