package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cumulus/internal/domain"
	"cumulus/internal/domain/services"
)

func TestShareLinkService_IssueAndResolve(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "shared.txt", 3)

	link, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID:  "alice",
		FileID:   file.ID,
		IsPublic: true,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if link.Token == "" {
		t.Fatal("issued link has no token")
	}

	resolved, err := e.shares.Resolve(ctx, link.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FileID != file.ID {
		t.Errorf("FileID = %s, want %s", resolved.FileID, file.ID)
	}
}

func TestShareLinkService_TokenProperties(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 1)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		link, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
			OwnerID: "alice", FileID: file.ID, IsPublic: true,
		})
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if len(link.Token) < 40 {
			t.Errorf("token %q is too short for 32 random bytes", link.Token)
		}
		if strings.ContainsAny(link.Token, "+/=") {
			t.Errorf("token %q is not URL-safe", link.Token)
		}
		if seen[link.Token] {
			t.Fatalf("token %q issued twice", link.Token)
		}
		seen[link.Token] = true
	}
}

func TestShareLinkService_IssueRequiresOwnedFile(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 1)

	_, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID: "bob", FileID: file.ID, IsPublic: true,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-owner Issue = %v, want ErrNotFound", err)
	}
}

func TestShareLinkService_IssueValidation(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *services.IssueShareLinkRequest
	}{
		{
			name: "missing file id",
			req:  &services.IssueShareLinkRequest{OwnerID: "alice"},
		},
		{
			name: "malformed allow-list email",
			req: &services.IssueShareLinkRequest{
				OwnerID: "alice", FileID: "f", AllowedEmails: []string{"not-an-email"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.shares.Issue(ctx, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Issue error = %v, want ErrValidation", err)
			}
		})
	}
}

// Expired tokens and never-issued tokens resolve identically so the
// endpoint cannot be used to probe which tokens exist
func TestShareLinkService_ExpiredMatchesNeverIssued(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 1)

	past := time.Now().Add(-time.Hour)
	expired, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID: "alice", FileID: file.ID, IsPublic: true, ExpiresAt: &past,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, errExpired := e.shares.Resolve(ctx, expired.Token)
	_, errNever := e.shares.Resolve(ctx, "never-issued-token")

	if !errors.Is(errExpired, domain.ErrNotFound) {
		t.Errorf("expired token = %v, want ErrNotFound", errExpired)
	}
	if !errors.Is(errNever, domain.ErrNotFound) {
		t.Errorf("never-issued token = %v, want ErrNotFound", errNever)
	}
}

func TestShareLinkService_FutureExpiryStillResolves(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 1)

	future := time.Now().Add(time.Hour)
	link, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID: "alice", FileID: file.ID, IsPublic: true, ExpiresAt: &future,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := e.shares.Resolve(ctx, link.Token); err != nil {
		t.Errorf("Resolve: %v", err)
	}
}

func TestShareLinkService_Revoke(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 1)
	link, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID: "alice", FileID: file.ID, IsPublic: true,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Only the issuer may revoke
	if err := e.shares.Revoke(ctx, "bob", link.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-owner Revoke = %v, want ErrNotFound", err)
	}

	if err := e.shares.Revoke(ctx, "alice", link.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := e.shares.Resolve(ctx, link.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Resolve after revoke = %v, want ErrNotFound", err)
	}

	// Revoking twice is NotFound, not a crash
	if err := e.shares.Revoke(ctx, "alice", link.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("double Revoke = %v, want ErrNotFound", err)
	}
}
