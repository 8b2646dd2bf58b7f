package campus

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, shared with the maintenance CLI.
const (
	CollStudents      = "students"
	CollOrganizers    = "organizers"
	CollAdmins        = "admins"
	CollEvents        = "events"
	CollRegistrations = "registrations"
	CollActivityLogs  = "activity_logs"
	CollFeedback      = "feedback"
	CollContacts      = "contacts"
	CollProjectMeta   = "project_meta"
)

// MongoStore persists campus data in MongoDB.
type MongoStore struct {
	db            *mongo.Database
	students      *mongo.Collection
	organizers    *mongo.Collection
	admins        *mongo.Collection
	events        *mongo.Collection
	registrations *mongo.Collection
	logs          *mongo.Collection
	feedback      *mongo.Collection
	contacts      *mongo.Collection
	meta          *mongo.Collection
}

// NewMongoStore binds the store to db and makes sure the unique indexes exist.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	s := &MongoStore{
		db:            db,
		students:      db.Collection(CollStudents),
		organizers:    db.Collection(CollOrganizers),
		admins:        db.Collection(CollAdmins),
		events:        db.Collection(CollEvents),
		registrations: db.Collection(CollRegistrations),
		logs:          db.Collection(CollActivityLogs),
		feedback:      db.Collection(CollFeedback),
		contacts:      db.Collection(CollContacts),
		meta:          db.Collection(CollProjectMeta),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique indexes the service relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := func(name string, keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true).SetName(name)}
	}

	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.students, []mongo.IndexModel{unique("students_student_id", "studentId"), unique("students_email", "email")}},
		{s.organizers, []mongo.IndexModel{unique("organizers_organizer_id", "organizerId"), unique("organizers_email", "email")}},
		{s.admins, []mongo.IndexModel{unique("admins_username", "username")}},
		{s.registrations, []mongo.IndexModel{
			unique("registrations_student_event", "studentId", "eventId"),
			{Keys: bson.D{{Key: "eventId", Value: 1}}, Options: options.Index().SetName("registrations_event")},
		}},
		{s.events, []mongo.IndexModel{
			{Keys: bson.D{{Key: "organizerId", Value: 1}}, Options: options.Index().SetName("events_organizer")},
		}},
		{s.meta, []mongo.IndexModel{unique("project_meta_key", "key")}},
	}
	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("%s indexes: %w", spec.coll.Name(), err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Database exposes the underlying database for maintenance tasks.
func (s *MongoStore) Database() *mongo.Database { return s.db }

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	return nil
}

// findOne decodes the first match into a new T, returning nil when nothing matches.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return &v, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func idOrEmail(idField, identifier string) bson.M {
	return bson.M{"$or": bson.A{bson.M{idField: identifier}, bson.M{"email": identifier}}}
}

func exists(ctx context.Context, coll *mongo.Collection, filter any) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n > 0, nil
}

// ---------- Students ----------

func (s *MongoStore) CreateStudent(ctx context.Context, st *Student) error {
	if st.RegisteredEvents == nil {
		st.RegisteredEvents = []string{}
	}
	return insert(ctx, s.students, st)
}

func (s *MongoStore) StudentExists(ctx context.Context, studentID, email string) (bool, error) {
	return exists(ctx, s.students, bson.M{"$or": bson.A{bson.M{"studentId": studentID}, bson.M{"email": email}}})
}

func (s *MongoStore) FindStudent(ctx context.Context, identifier string) (*Student, error) {
	return findOne[Student](ctx, s.students, idOrEmail("studentId", identifier))
}

func (s *MongoStore) GetStudent(ctx context.Context, studentID string) (*Student, error) {
	return findOne[Student](ctx, s.students, bson.M{"studentId": studentID})
}

func (s *MongoStore) GetStudentByKey(ctx context.Context, id string) (*Student, error) {
	return findOne[Student](ctx, s.students, bson.M{"_id": id})
}

func (s *MongoStore) SetStudentPassword(ctx context.Context, id, password string) error {
	_, err := s.students.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": password}})
	if err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

func (s *MongoStore) AddStudentEvent(ctx context.Context, studentID, eventID string) error {
	_, err := s.students.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$push": bson.M{"registeredEvents": eventID}},
	)
	if err != nil {
		return fmt.Errorf("append student event: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteStudent(ctx context.Context, studentID string) error {
	if _, err := s.students.DeleteOne(ctx, bson.M{"studentId": studentID}); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

func (s *MongoStore) ListStudents(ctx context.Context) ([]Student, error) {
	return findAll[Student](ctx, s.students, bson.D{})
}

func (s *MongoStore) CountStudents(ctx context.Context) (int64, error) {
	return s.students.CountDocuments(ctx, bson.D{})
}

// ---------- Organizers ----------

func (s *MongoStore) CreateOrganizer(ctx context.Context, o *Organizer) error {
	return insert(ctx, s.organizers, o)
}

func (s *MongoStore) OrganizerExists(ctx context.Context, organizerID, email string) (bool, error) {
	return exists(ctx, s.organizers, bson.M{"$or": bson.A{bson.M{"organizerId": organizerID}, bson.M{"email": email}}})
}

func (s *MongoStore) FindOrganizer(ctx context.Context, identifier string) (*Organizer, error) {
	return findOne[Organizer](ctx, s.organizers, idOrEmail("organizerId", identifier))
}

func (s *MongoStore) GetOrganizerByKey(ctx context.Context, id string) (*Organizer, error) {
	return findOne[Organizer](ctx, s.organizers, bson.M{"_id": id})
}

func (s *MongoStore) SetOrganizerPassword(ctx context.Context, id, password string) error {
	_, err := s.organizers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": password}})
	if err != nil {
		return fmt.Errorf("update organizer password: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteOrganizer(ctx context.Context, organizerID string) error {
	if _, err := s.organizers.DeleteOne(ctx, bson.M{"organizerId": organizerID}); err != nil {
		return fmt.Errorf("delete organizer: %w", err)
	}
	return nil
}

func (s *MongoStore) ListOrganizers(ctx context.Context) ([]Organizer, error) {
	return findAll[Organizer](ctx, s.organizers, bson.D{})
}

func (s *MongoStore) CountOrganizers(ctx context.Context) (int64, error) {
	return s.organizers.CountDocuments(ctx, bson.D{})
}

// ---------- Admins ----------

func (s *MongoStore) CreateAdmin(ctx context.Context, a *Admin) error {
	return insert(ctx, s.admins, a)
}

func (s *MongoStore) GetAdmin(ctx context.Context, username string) (*Admin, error) {
	return findOne[Admin](ctx, s.admins, bson.M{"username": username})
}

// ---------- Events ----------

func eventQuery(f EventFilter) bson.M {
	q := bson.M{}
	if f.Approved != nil {
		q["isApproved"] = *f.Approved
	}
	if f.OrganizerID != "" {
		q["organizerId"] = f.OrganizerID
	}
	if f.IDs != nil {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}

func (s *MongoStore) CreateEvent(ctx context.Context, e *Event) error {
	return insert(ctx, s.events, e)
}

func (s *MongoStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	return findOne[Event](ctx, s.events, bson.M{"_id": id})
}

func (s *MongoStore) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	return findAll[Event](ctx, s.events, eventQuery(f))
}

func (s *MongoStore) CountEvents(ctx context.Context, f EventFilter) (int64, error) {
	return s.events.CountDocuments(ctx, eventQuery(f))
}

func (p EventPatch) setDoc() bson.M {
	set := bson.M{}
	put := func(key string, ok bool, v any) {
		if ok {
			set[key] = v
		}
	}
	put("title", p.Title != nil, deref(p.Title))
	put("date", p.Date != nil, deref(p.Date))
	put("time", p.Time != nil, deref(p.Time))
	put("location", p.Location != nil, deref(p.Location))
	put("description", p.Description != nil, deref(p.Description))
	put("category", p.Category != nil, deref(p.Category))
	put("price", p.Price != nil, deref(p.Price))
	put("maxParticipants", p.MaxParticipants != nil, deref(p.MaxParticipants))
	put("poster", p.Poster != nil, deref(p.Poster))
	put("rules", p.Rules != nil, deref(p.Rules))
	put("deadline", p.Deadline != nil, deref(p.Deadline))
	put("status", p.Status != nil, deref(p.Status))
	put("isApproved", p.IsApproved != nil, deref(p.IsApproved))
	return set
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func (s *MongoStore) UpdateEvent(ctx context.Context, id string, p EventPatch) (*Event, error) {
	set := p.setDoc()
	if len(set) == 0 {
		return s.GetEvent(ctx, id)
	}
	var e Event
	err := s.events.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &e, nil
}

func (s *MongoStore) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.events.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ReserveSeat is a guarded increment: the filter only matches while the event
// is unlimited or still below maxParticipants, so two concurrent reservations
// cannot both take the last seat.
func (s *MongoStore) ReserveSeat(ctx context.Context, id string) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"maxParticipants": bson.M{"$in": bson.A{nil, 0}}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$registeredCount", "$maxParticipants"}}},
		},
	}
	res, err := s.events.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registeredCount": 1}})
	if err != nil {
		return false, fmt.Errorf("reserve seat: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (s *MongoStore) ReleaseSeat(ctx context.Context, id string) error {
	_, err := s.events.UpdateOne(ctx,
		bson.M{"_id": id, "registeredCount": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"registeredCount": -1}},
	)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

func (s *MongoStore) SetRegisteredCount(ctx context.Context, id string, n int) error {
	_, err := s.events.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"registeredCount": n}})
	if err != nil {
		return fmt.Errorf("set registered count: %w", err)
	}
	return nil
}

// ---------- Registrations ----------

func registrationQuery(f RegistrationFilter) bson.M {
	q := bson.M{}
	if f.StudentID != "" {
		q["studentId"] = f.StudentID
	}
	if f.EventID != "" {
		q["eventId"] = f.EventID
	} else if f.EventIDs != nil {
		q["eventId"] = bson.M{"$in": f.EventIDs}
	}
	if f.ExcludeCancelled {
		q["status"] = bson.M{"$ne": StatusCancelled}
	}
	return q
}

func (s *MongoStore) CreateRegistration(ctx context.Context, r *Registration) error {
	if r.TeamMembers == nil {
		r.TeamMembers = []string{}
	}
	return insert(ctx, s.registrations, r)
}

func (s *MongoStore) FindRegistration(ctx context.Context, studentID, eventID string) (*Registration, error) {
	return findOne[Registration](ctx, s.registrations, bson.M{"studentId": studentID, "eventId": eventID})
}

func (s *MongoStore) GetRegistration(ctx context.Context, id string) (*Registration, error) {
	return findOne[Registration](ctx, s.registrations, bson.M{"_id": id})
}

func (s *MongoStore) ListRegistrations(ctx context.Context, f RegistrationFilter) ([]Registration, error) {
	opts := options.Find()
	if f.NewestFirst {
		opts.SetSort(bson.D{{Key: "registrationDate", Value: -1}})
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return findAll[Registration](ctx, s.registrations, registrationQuery(f), opts)
}

func (s *MongoStore) CountRegistrations(ctx context.Context, f RegistrationFilter) (int64, error) {
	return s.registrations.CountDocuments(ctx, registrationQuery(f))
}

func (s *MongoStore) SetRegistrationStatus(ctx context.Context, id, status string) (*Registration, error) {
	var r Registration
	err := s.registrations.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) DeleteRegistrations(ctx context.Context, f RegistrationFilter) (int64, error) {
	if f.StudentID == "" && f.EventID == "" {
		return 0, errors.New("delete registrations: refusing unscoped delete")
	}
	res, err := s.registrations.DeleteMany(ctx, registrationQuery(f))
	if err != nil {
		return 0, fmt.Errorf("delete registrations: %w", err)
	}
	return res.DeletedCount, nil
}

// ---------- Records ----------

func (s *MongoStore) AppendLog(ctx context.Context, l *ActivityLog) error {
	return insert(ctx, s.logs, l)
}

func (s *MongoStore) ListLogs(ctx context.Context) ([]ActivityLog, error) {
	return findAll[ActivityLog](ctx, s.logs, bson.D{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
}

func (s *MongoStore) CreateFeedback(ctx context.Context, f *Feedback) error {
	return insert(ctx, s.feedback, f)
}

func (s *MongoStore) CreateContact(ctx context.Context, c *Contact) error {
	return insert(ctx, s.contacts, c)
}

func (s *MongoStore) GetMeta(ctx context.Context, key string) (*ProjectMeta, error) {
	return findOne[ProjectMeta](ctx, s.meta, bson.M{"key": key})
}

func (s *MongoStore) CreateMeta(ctx context.Context, m *ProjectMeta) error {
	return insert(ctx, s.meta, m)
}
