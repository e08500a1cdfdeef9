package graph

import (
	"context"

	"newleash/internal/domain/pets"
	"newleash/internal/domain/search"
	"newleash/internal/middleware"

	graphql "github.com/graph-gophers/graphql-go"
)

func (r *Resolver) Me(ctx context.Context) (*profileResolver, error) {
	c, ok := middleware.GetClaims(ctx)
	if !ok {
		return nil, nil
	}
	p, err := r.svc.Profiles.Get(ctx, c.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "me", err)
	}
	return r.profile(p), nil
}

func (r *Resolver) Profile(ctx context.Context, args struct{ Username string }) (*profileResolver, error) {
	p, err := r.svc.Profiles.GetByUsername(ctx, args.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "profile", err)
	}
	return r.profile(p), nil
}

func (r *Resolver) Profiles(ctx context.Context) ([]*profileResolver, error) {
	list, err := r.svc.Profiles.List(ctx)
	if err != nil {
		return nil, r.fail(ctx, "profiles", err)
	}
	out := make([]*profileResolver, 0, len(list))
	for _, p := range list {
		out = append(out, r.profile(p))
	}
	return out, nil
}

type petsArgs struct {
	Type    *string
	OwnerID *graphql.ID
}

func (r *Resolver) Pets(ctx context.Context, args petsArgs) ([]*petResolver, error) {
	var f pets.Filter
	if args.Type != nil {
		f.Type = *args.Type
	}
	if args.OwnerID != nil {
		f.OwnerID = string(*args.OwnerID)
	}
	list, err := r.svc.Pets.List(ctx, f)
	if err != nil {
		return nil, r.fail(ctx, "pets", err)
	}
	return r.petList(list), nil
}

func (r *Resolver) Pet(ctx context.Context, args struct{ ID graphql.ID }) (*petResolver, error) {
	p, err := r.svc.Pets.GetByID(ctx, string(args.ID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "pet", err)
	}
	return &petResolver{r: r, p: p}, nil
}

type searchInput struct {
	Type     *string
	Breed    *string
	Age      *string
	Gender   *string
	Size     *string
	Location *string
	Distance *int32
	Page     *int32
	Limit    *int32
}

func (in *searchInput) toDomain() search.Input {
	var out search.Input
	if in == nil {
		return out
	}
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *int32) int {
		if p == nil {
			return 0
		}
		return int(*p)
	}
	out.Type = str(in.Type)
	out.Breed = str(in.Breed)
	out.Age = str(in.Age)
	out.Gender = str(in.Gender)
	out.Size = str(in.Size)
	out.Location = str(in.Location)
	out.Distance = num(in.Distance)
	out.Page = num(in.Page)
	out.Limit = num(in.Limit)
	return out
}

func (r *Resolver) SearchPets(ctx context.Context, args struct{ Input *searchInput }) (*searchResultResolver, error) {
	res, err := r.svc.Search.Search(ctx, args.Input.toDomain())
	if err != nil {
		return nil, r.fail(ctx, "searchPets", err)
	}
	return &searchResultResolver{res: res}, nil
}

func (r *Resolver) Listing(ctx context.Context, args struct{ ID graphql.ID }) (*listingResolver, error) {
	l, err := r.svc.Search.Listing(ctx, string(args.ID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "listing", err)
	}
	return &listingResolver{l: l}, nil
}

func (r *Resolver) PetTypes(ctx context.Context) ([]string, error) {
	types, err := r.svc.Search.Types(ctx)
	if err != nil {
		return nil, r.fail(ctx, "petTypes", err)
	}
	return types, nil
}

func (r *Resolver) Breeds(ctx context.Context, args struct{ Type string }) ([]string, error) {
	breeds, err := r.svc.Search.Breeds(ctx, args.Type)
	if err != nil {
		return nil, r.fail(ctx, "breeds", err)
	}
	return breeds, nil
}

type sheltersArgs struct {
	Location string
	Distance *int32
}

func (r *Resolver) Shelters(ctx context.Context, args sheltersArgs) ([]*shelterResolver, error) {
	distance := 0
	if args.Distance != nil {
		distance = int(*args.Distance)
	}
	list, err := r.svc.Shelters.Lookup(ctx, args.Location, distance)
	if err != nil {
		return nil, r.fail(ctx, "shelters", err)
	}
	return shelterList(list), nil
}

func (r *Resolver) Shelter(ctx context.Context, args struct{ ID graphql.ID }) (*shelterResolver, error) {
	s, err := r.svc.Shelters.Get(ctx, string(args.ID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "shelter", err)
	}
	return &shelterResolver{s: s}, nil
}

func (r *Resolver) Geocode(ctx context.Context, args struct{ Address string }) (*geoPointResolver, error) {
	p, err := r.svc.Shelters.Geocode(ctx, args.Address)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "geocode", err)
	}
	return &geoPointResolver{p: p}, nil
}

func (r *Resolver) Threads(ctx context.Context) ([]*threadResolver, error) {
	list, err := r.svc.Forum.ListThreads(ctx)
	if err != nil {
		return nil, r.fail(ctx, "threads", err)
	}
	out := make([]*threadResolver, 0, len(list))
	for _, t := range list {
		out = append(out, &threadResolver{r: r, t: t})
	}
	return out, nil
}

func (r *Resolver) Thread(ctx context.Context, args struct{ ID graphql.ID }) (*threadResolver, error) {
	t, err := r.svc.Forum.GetThread(ctx, string(args.ID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, "thread", err)
	}
	return &threadResolver{r: r, t: t}, nil
}
