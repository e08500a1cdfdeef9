package graph

import (
	"context"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/images"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/search"
	"newleash/internal/ports/auth"

	graphql "github.com/graph-gophers/graphql-go"
)

// ---- Profiles / auth ----

func (r *Resolver) issue(ctx context.Context, op string, p profiles.Profile) (*authResolver, error) {
	if r.issuer == nil {
		return nil, r.fail(ctx, op, apperror.Unavailable("token issuer"))
	}
	token, err := r.issuer.Issue(ctx, auth.Claims{UserID: p.ID, Username: p.Username, Email: p.Email})
	if err != nil {
		return nil, r.fail(ctx, op, err)
	}
	return &authResolver{token: token, profile: r.profile(p)}, nil
}

type addProfileArgs struct {
	Username string
	Email    string
	Password string
}

func (r *Resolver) AddProfile(ctx context.Context, args addProfileArgs) (*authResolver, error) {
	p, err := r.svc.Profiles.Register(ctx, profiles.RegisterInput{
		Username: args.Username,
		Email:    args.Email,
		Password: args.Password,
	})
	if err != nil {
		return nil, r.fail(ctx, "addProfile", err)
	}
	r.log.Info("profile registered", map[string]any{"profile_id": p.ID})
	return r.issue(ctx, "addProfile", p)
}

type loginArgs struct {
	Email    string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*authResolver, error) {
	p, err := r.svc.Profiles.Authenticate(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.fail(ctx, "login", err)
	}
	return r.issue(ctx, "login", p)
}

type profileInput struct {
	Username    *string
	Email       *string
	Password    *string
	DisplayName *string
	Location    *string
	AvatarURL   *string
}

func (r *Resolver) UpdateProfile(ctx context.Context, args struct{ Input profileInput }) (*profileResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	p, err := r.svc.Profiles.Update(ctx, uid, profiles.UpdateInput{
		Username:    in.Username,
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Location:    in.Location,
		AvatarURL:   in.AvatarURL,
	})
	if err != nil {
		return nil, r.fail(ctx, "updateProfile", err)
	}
	return r.profile(p), nil
}

func (r *Resolver) RemoveProfile(ctx context.Context) (*profileResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.svc.Profiles.Delete(ctx, uid)
	if err != nil {
		return nil, r.fail(ctx, "removeProfile", err)
	}
	r.log.Info("profile removed", map[string]any{"profile_id": p.ID})
	return r.profile(p), nil
}

// ---- Saved pets ----

func (r *Resolver) SavePet(ctx context.Context, args struct{ PetID graphql.ID }) (*profileResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.svc.Profiles.SavePet(ctx, uid, string(args.PetID))
	if err != nil {
		return nil, r.fail(ctx, "savePet", err)
	}
	return r.profile(p), nil
}

// SaveListing espeja el animal externo en el store y lo guarda.
func (r *Resolver) SaveListing(ctx context.Context, args struct{ ListingID graphql.ID }) (*profileResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	l, err := r.svc.Search.Listing(ctx, string(args.ListingID))
	if err != nil {
		return nil, r.fail(ctx, "saveListing", err)
	}
	pet, err := r.svc.Pets.Mirror(ctx, search.ToMirror(l))
	if err != nil {
		return nil, r.fail(ctx, "saveListing", err)
	}
	p, err := r.svc.Profiles.SavePet(ctx, uid, pet.ID)
	if err != nil {
		return nil, r.fail(ctx, "saveListing", err)
	}
	return r.profile(p), nil
}

func (r *Resolver) RemoveSavedPet(ctx context.Context, args struct{ PetID graphql.ID }) (*profileResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.svc.Profiles.RemoveSavedPet(ctx, uid, string(args.PetID))
	if err != nil {
		return nil, r.fail(ctx, "removeSavedPet", err)
	}
	return r.profile(p), nil
}

// ---- Pets ----

type petInput struct {
	Name         string
	Type         string
	Breed        *string
	Age          *string
	Gender       *string
	Size         *string
	Description  *string
	Photos       *[]string
	ContactEmail *string
	ContactPhone *string
	Location     *string
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (r *Resolver) AddPet(ctx context.Context, args struct{ Input petInput }) (*petResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	var photos []string
	if in.Photos != nil {
		photos = *in.Photos
	}
	p, err := r.svc.Pets.Create(ctx, uid, pets.CreateInput{
		Name:         in.Name,
		Type:         in.Type,
		Breed:        deref(in.Breed),
		Age:          deref(in.Age),
		Gender:       deref(in.Gender),
		Size:         deref(in.Size),
		Description:  deref(in.Description),
		Photos:       photos,
		ContactEmail: deref(in.ContactEmail),
		ContactPhone: deref(in.ContactPhone),
		Location:     deref(in.Location),
	})
	if err != nil {
		return nil, r.fail(ctx, "addPet", err)
	}
	return &petResolver{r: r, p: p}, nil
}

type petUpdateInput struct {
	Name         *string
	Type         *string
	Breed        *string
	Age          *string
	Gender       *string
	Size         *string
	Description  *string
	Photos       *[]string
	Status       *string
	ContactEmail *string
	ContactPhone *string
	Location     *string
}

type updatePetArgs struct {
	ID    graphql.ID
	Input petUpdateInput
}

func (r *Resolver) UpdatePet(ctx context.Context, args updatePetArgs) (*petResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	upd := pets.UpdateInput{
		Name:         in.Name,
		Type:         in.Type,
		Breed:        in.Breed,
		Age:          in.Age,
		Gender:       in.Gender,
		Size:         in.Size,
		Description:  in.Description,
		Status:       in.Status,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Location:     in.Location,
	}
	if in.Photos != nil {
		upd.Photos = *in.Photos
		if upd.Photos == nil {
			upd.Photos = []string{}
		}
	}
	p, err := r.svc.Pets.Update(ctx, string(args.ID), uid, upd)
	if err != nil {
		return nil, r.fail(ctx, "updatePet", err)
	}
	return &petResolver{r: r, p: p}, nil
}

func (r *Resolver) RemovePet(ctx context.Context, args struct{ ID graphql.ID }) (*petResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.svc.Pets.Delete(ctx, string(args.ID), uid)
	if err != nil {
		return nil, r.fail(ctx, "removePet", err)
	}
	return &petResolver{r: r, p: p}, nil
}

// ---- Forum ----

type addThreadArgs struct {
	Title string
	Body  string
}

func (r *Resolver) AddThread(ctx context.Context, args addThreadArgs) (*threadResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.svc.Forum.CreateThread(ctx, uid, args.Title, args.Body)
	if err != nil {
		return nil, r.fail(ctx, "addThread", err)
	}
	return &threadResolver{r: r, t: t}, nil
}

type updateThreadArgs struct {
	ID    graphql.ID
	Title *string
	Body  *string
}

func (r *Resolver) UpdateThread(ctx context.Context, args updateThreadArgs) (*threadResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.svc.Forum.UpdateThread(ctx, string(args.ID), uid, forum.UpdateThreadInput{
		Title: args.Title,
		Body:  args.Body,
	})
	if err != nil {
		return nil, r.fail(ctx, "updateThread", err)
	}
	return &threadResolver{r: r, t: t}, nil
}

func (r *Resolver) RemoveThread(ctx context.Context, args struct{ ID graphql.ID }) (*threadResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.svc.Forum.DeleteThread(ctx, string(args.ID), uid)
	if err != nil {
		return nil, r.fail(ctx, "removeThread", err)
	}
	return &threadResolver{r: r, t: t}, nil
}

type addCommentArgs struct {
	ThreadID graphql.ID
	Body     string
}

func (r *Resolver) AddComment(ctx context.Context, args addCommentArgs) (*commentResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	c, err := r.svc.Forum.AddComment(ctx, string(args.ThreadID), uid, args.Body)
	if err != nil {
		return nil, r.fail(ctx, "addComment", err)
	}
	return &commentResolver{r: r, c: c}, nil
}

func (r *Resolver) RemoveComment(ctx context.Context, args struct{ ID graphql.ID }) (*commentResolver, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	c, err := r.svc.Forum.DeleteComment(ctx, string(args.ID), uid)
	if err != nil {
		return nil, r.fail(ctx, "removeComment", err)
	}
	return &commentResolver{r: r, c: c}, nil
}

// ---- Images ----

type uploadImageArgs struct {
	Data     string
	Filename *string
}

func (r *Resolver) UploadImage(ctx context.Context, args uploadImageArgs) (*imageResolver, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	img, err := r.svc.Images.Upload(ctx, images.UploadInput{
		Data:     args.Data,
		Filename: deref(args.Filename),
	})
	if err != nil {
		return nil, r.fail(ctx, "uploadImage", err)
	}
	return &imageResolver{img: img}, nil
}

func (r *Resolver) DeleteImage(ctx context.Context, args struct{ PublicID string }) (bool, error) {
	if _, err := callerID(ctx); err != nil {
		return false, err
	}
	if err := r.svc.Images.Delete(ctx, args.PublicID); err != nil {
		return false, r.fail(ctx, "deleteImage", err)
	}
	return true, nil
}
