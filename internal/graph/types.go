package graph

import (
	"context"
	"time"

	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/search"
	"newleash/internal/domain/shelters"
	"newleash/internal/middleware"
	"newleash/internal/ports/geocoding"
	"newleash/internal/ports/imagehost"
	"newleash/internal/ports/petlisting"

	graphql "github.com/graph-gophers/graphql-go"
)

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func gqlTime(t time.Time) graphql.Time {
	return graphql.Time{Time: t}
}

// ---- Auth ----

type authResolver struct {
	token   string
	profile *profileResolver
}

func (a *authResolver) Token() string             { return a.token }
func (a *authResolver) Profile() *profileResolver { return a.profile }

// ---- Profile ----

type profileResolver struct {
	r *Resolver
	p profiles.Profile
}

func (r *Resolver) profile(p profiles.Profile) *profileResolver {
	return &profileResolver{r: r, p: p}
}

func (p *profileResolver) ID() graphql.ID      { return graphql.ID(p.p.ID) }
func (p *profileResolver) Username() string    { return p.p.Username }
func (p *profileResolver) DisplayName() string { return p.p.DisplayName }
func (p *profileResolver) Location() string    { return p.p.Location }
func (p *profileResolver) AvatarURL() string   { return p.p.AvatarURL }
func (p *profileResolver) CreatedAt() graphql.Time {
	return gqlTime(p.p.CreatedAt)
}
func (p *profileResolver) UpdatedAt() graphql.Time {
	return gqlTime(p.p.UpdatedAt)
}

func (p *profileResolver) Email(ctx context.Context) *string {
	c, ok := middleware.GetClaims(ctx)
	if !ok || c.UserID != p.p.ID {
		return nil
	}
	return &p.p.Email
}

func (p *profileResolver) SavedPets(ctx context.Context) ([]*petResolver, error) {
	list, err := p.r.svc.Pets.GetMany(ctx, p.p.SavedPetIDs)
	if err != nil {
		return nil, p.r.fail(ctx, "Profile.savedPets", err)
	}
	return p.r.petList(list), nil
}

func (p *profileResolver) Pets(ctx context.Context) ([]*petResolver, error) {
	list, err := p.r.svc.Pets.ListByOwner(ctx, p.p.ID)
	if err != nil {
		return nil, p.r.fail(ctx, "Profile.pets", err)
	}
	return p.r.petList(list), nil
}

// ---- Pet ----

type petResolver struct {
	r *Resolver
	p pets.Pet
}

func (r *Resolver) petList(list []pets.Pet) []*petResolver {
	out := make([]*petResolver, 0, len(list))
	for _, p := range list {
		out = append(out, &petResolver{r: r, p: p})
	}
	return out
}

func (p *petResolver) ID() graphql.ID       { return graphql.ID(p.p.ID) }
func (p *petResolver) Source() string       { return string(p.p.Source) }
func (p *petResolver) ExternalID() *string  { return optString(p.p.ExternalID) }
func (p *petResolver) Name() string         { return p.p.Name }
func (p *petResolver) Type() string         { return p.p.Type }
func (p *petResolver) Breed() string        { return p.p.Breed }
func (p *petResolver) Age() *string         { return optString(string(p.p.Age)) }
func (p *petResolver) Gender() *string      { return optString(string(p.p.Gender)) }
func (p *petResolver) Size() *string        { return optString(string(p.p.Size)) }
func (p *petResolver) Description() string  { return p.p.Description }
func (p *petResolver) Status() string       { return string(p.p.Status) }
func (p *petResolver) ContactEmail() string { return p.p.ContactEmail }
func (p *petResolver) ContactPhone() string { return p.p.ContactPhone }
func (p *petResolver) URL() string          { return p.p.URL }
func (p *petResolver) Location() string     { return p.p.Location }
func (p *petResolver) ShelterID() *string   { return optString(p.p.ShelterID) }

func (p *petResolver) CreatedAt() graphql.Time {
	return gqlTime(p.p.CreatedAt)
}

func (p *petResolver) UpdatedAt() graphql.Time {
	return gqlTime(p.p.UpdatedAt)
}

func (p *petResolver) Photos() []string {
	if p.p.Photos == nil {
		return []string{}
	}
	return p.p.Photos
}

func (p *petResolver) Owner(ctx context.Context) (*profileResolver, error) {
	if p.p.OwnerID == "" {
		return nil, nil
	}
	owner, err := p.r.svc.Profiles.Get(ctx, p.p.OwnerID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, p.r.fail(ctx, "Pet.owner", err)
	}
	return p.r.profile(owner), nil
}

// ---- Listing (animal del listado externo) ----

type listingResolver struct {
	l search.Listing
}

func listingList(list []search.Listing) []*listingResolver {
	out := make([]*listingResolver, 0, len(list))
	for _, l := range list {
		out = append(out, &listingResolver{l: l})
	}
	return out
}

func (l *listingResolver) ID() graphql.ID         { return graphql.ID(l.l.ID) }
func (l *listingResolver) OrganizationID() string { return l.l.OrganizationID }
func (l *listingResolver) URL() string            { return l.l.URL }
func (l *listingResolver) Type() string           { return l.l.Type }
func (l *listingResolver) Species() string        { return l.l.Species }
func (l *listingResolver) Breed() string          { return l.l.Breed }
func (l *listingResolver) Age() string            { return l.l.Age }
func (l *listingResolver) Gender() string         { return l.l.Gender }
func (l *listingResolver) Size() string           { return l.l.Size }
func (l *listingResolver) Name() string           { return l.l.Name }
func (l *listingResolver) Description() string    { return l.l.Description }
func (l *listingResolver) Status() string         { return l.l.Status }
func (l *listingResolver) Distance() *float64     { return l.l.Distance }

func (l *listingResolver) Contact() *contactResolver {
	return &contactResolver{c: l.l.Contact}
}

func (l *listingResolver) Photos() []string {
	if l.l.Photos == nil {
		return []string{}
	}
	return l.l.Photos
}

func (l *listingResolver) PublishedAt() *graphql.Time {
	if l.l.PublishedAt.IsZero() {
		return nil
	}
	t := gqlTime(l.l.PublishedAt)
	return &t
}

type contactResolver struct {
	c petlisting.Contact
}

func (c *contactResolver) Email() string { return c.c.Email }
func (c *contactResolver) Phone() string { return c.c.Phone }
func (c *contactResolver) Address() *addressResolver {
	return &addressResolver{a: shelters.Address(c.c.Address)}
}

type addressResolver struct {
	a shelters.Address
}

func (a *addressResolver) Address1() string { return a.a.Address1 }
func (a *addressResolver) City() string     { return a.a.City }
func (a *addressResolver) State() string    { return a.a.State }
func (a *addressResolver) Postcode() string { return a.a.Postcode }
func (a *addressResolver) Country() string  { return a.a.Country }

type searchResultResolver struct {
	res search.Result
}

func (s *searchResultResolver) Listings() []*listingResolver { return listingList(s.res.Listings) }
func (s *searchResultResolver) Pagination() *paginationResolver {
	return &paginationResolver{p: s.res.Pagination}
}

type paginationResolver struct {
	p petlisting.Pagination
}

func (p *paginationResolver) CurrentPage() int32 { return int32(p.p.CurrentPage) }
func (p *paginationResolver) TotalPages() int32  { return int32(p.p.TotalPages) }
func (p *paginationResolver) TotalCount() int32  { return int32(p.p.TotalCount) }
func (p *paginationResolver) PerPage() int32     { return int32(p.p.PerPage) }

// ---- Shelter ----

type shelterResolver struct {
	s shelters.Shelter
}

func shelterList(list []shelters.Shelter) []*shelterResolver {
	out := make([]*shelterResolver, 0, len(list))
	for _, s := range list {
		out = append(out, &shelterResolver{s: s})
	}
	return out
}

func (s *shelterResolver) ID() graphql.ID            { return graphql.ID(s.s.ID) }
func (s *shelterResolver) ExternalID() string        { return s.s.ExternalID }
func (s *shelterResolver) Name() string              { return s.s.Name }
func (s *shelterResolver) Email() string             { return s.s.Email }
func (s *shelterResolver) Phone() string             { return s.s.Phone }
func (s *shelterResolver) Website() string           { return s.s.Website }
func (s *shelterResolver) URL() string               { return s.s.URL }
func (s *shelterResolver) Address() *addressResolver { return &addressResolver{a: s.s.Address} }
func (s *shelterResolver) Latitude() *float64        { return s.s.Latitude }
func (s *shelterResolver) Longitude() *float64       { return s.s.Longitude }
func (s *shelterResolver) Distance() *float64        { return s.s.Distance }

type geoPointResolver struct {
	p geocoding.Point
}

func (g *geoPointResolver) Latitude() float64        { return g.p.Latitude }
func (g *geoPointResolver) Longitude() float64       { return g.p.Longitude }
func (g *geoPointResolver) FormattedAddress() string { return g.p.FormattedAddress }

// ---- Forum ----

type threadResolver struct {
	r *Resolver
	t forum.Thread
}

func (t *threadResolver) ID() graphql.ID          { return graphql.ID(t.t.ID) }
func (t *threadResolver) Title() string           { return t.t.Title }
func (t *threadResolver) Body() string            { return t.t.Body }
func (t *threadResolver) CreatedAt() graphql.Time { return gqlTime(t.t.CreatedAt) }
func (t *threadResolver) UpdatedAt() graphql.Time { return gqlTime(t.t.UpdatedAt) }

func (t *threadResolver) Author(ctx context.Context) (*profileResolver, error) {
	return t.r.author(ctx, "Thread.author", t.t.AuthorID)
}

func (t *threadResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	list, err := t.r.svc.Forum.ListComments(ctx, t.t.ID)
	if err != nil {
		return nil, t.r.fail(ctx, "Thread.comments", err)
	}
	out := make([]*commentResolver, 0, len(list))
	for _, c := range list {
		out = append(out, &commentResolver{r: t.r, c: c})
	}
	return out, nil
}

type commentResolver struct {
	r *Resolver
	c forum.Comment
}

func (c *commentResolver) ID() graphql.ID          { return graphql.ID(c.c.ID) }
func (c *commentResolver) ThreadID() graphql.ID    { return graphql.ID(c.c.ThreadID) }
func (c *commentResolver) Body() string            { return c.c.Body }
func (c *commentResolver) CreatedAt() graphql.Time { return gqlTime(c.c.CreatedAt) }
func (c *commentResolver) UpdatedAt() graphql.Time { return gqlTime(c.c.UpdatedAt) }

func (c *commentResolver) Author(ctx context.Context) (*profileResolver, error) {
	return c.r.author(ctx, "Comment.author", c.c.AuthorID)
}

// author devuelve null si el perfil ya no existe.
func (r *Resolver) author(ctx context.Context, op, id string) (*profileResolver, error) {
	p, err := r.svc.Profiles.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail(ctx, op, err)
	}
	return r.profile(p), nil
}

// ---- Image ----

type imageResolver struct {
	img imagehost.Image
}

func (i *imageResolver) PublicID() string { return i.img.PublicID }
func (i *imageResolver) URL() string      { return i.img.URL }
func (i *imageResolver) Format() string   { return i.img.Format }
func (i *imageResolver) Width() int32     { return int32(i.img.Width) }
func (i *imageResolver) Height() int32    { return int32(i.img.Height) }
func (i *imageResolver) Bytes() int32     { return int32(i.img.Bytes) }
