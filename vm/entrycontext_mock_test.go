// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
)

func TestStagedBalance_ReturnsResolverBalanceWhenNoPendingChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := NewMockResolver(ctrl)

	addr := address.KanariSystem
	resolver.EXPECT().GetBalance(addr).Return(uint64(500))

	changes := changeset.New()
	if got := stagedBalance(resolver, changes, addr); got != 500 {
		t.Fatalf("stagedBalance() = %d, want 500", got)
	}
}

func TestStagedBalance_AppliesPendingDeltaOverResolverBase(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := NewMockResolver(ctrl)

	addr := address.KanariSystem
	resolver.EXPECT().GetBalance(addr).Return(uint64(500)).Times(2)

	changes := changeset.New()
	changes.GetOrCreateChange(addr).Credit(250)
	if got := stagedBalance(resolver, changes, addr); got != 750 {
		t.Fatalf("stagedBalance() after credit = %d, want 750", got)
	}

	changes2 := changeset.New()
	changes2.GetOrCreateChange(addr).Debit(600)
	if got := stagedBalance(resolver, changes2, addr); got != 0 {
		t.Fatalf("stagedBalance() clamped debit = %d, want 0", got)
	}
}

func TestEntryContext_BalanceOf_DelegatesToResolver(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := NewMockResolver(ctrl)

	addr := address.KanariSystem
	resolver.EXPECT().GetBalance(addr).Return(uint64(42))

	ctx := &EntryContext{
		Resolver: resolver,
		changes:  changeset.New(),
	}
	if got := ctx.BalanceOf(addr); got != 42 {
		t.Fatalf("BalanceOf() = %d, want 42", got)
	}
}
