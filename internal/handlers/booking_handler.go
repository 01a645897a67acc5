package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/httpresp"
	"github.com/BruksfildServices01/mediplus/internal/infra/blob"
	"github.com/BruksfildServices01/mediplus/internal/middleware"
	"github.com/BruksfildServices01/mediplus/internal/models"
	ucBooking "github.com/BruksfildServices01/mediplus/internal/usecase/booking"
)

type BookingHandler struct {
	create       *ucBooking.CreateBooking
	update       *ucBooking.UpdateBooking
	del          *ucBooking.DeleteBooking
	prescription *ucBooking.AddPrescription
	documents    *ucBooking.AddUserDocuments
	list         *ucBooking.ListBookings
	stats        *ucBooking.BookingStats

	files *fileUploader
	log   *zap.Logger
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	update *ucBooking.UpdateBooking,
	del *ucBooking.DeleteBooking,
	prescription *ucBooking.AddPrescription,
	documents *ucBooking.AddUserDocuments,
	list *ucBooking.ListBookings,
	stats *ucBooking.BookingStats,
	store blob.Store,
	maxUploadBytes int64,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		update:       update,
		del:          del,
		prescription: prescription,
		documents:    documents,
		list:         list,
		stats:        stats,
		files:        &fileUploader{store: store, maxBytes: maxUploadBytes, log: log.Named("bookings")},
		log:          log.Named("bookings"),
	}
}

// --------- Requests ---------

type createBookingRequest struct {
	UserID     uint   `json:"user_id" form:"user_id"`
	UserEmail  string `json:"user_email" form:"user_email"`
	UserMobile string `json:"user_mobile" form:"user_mobile"`

	DoctorID        *uint  `json:"doctor_id" form:"doctor_id"`
	DoctorFirstname string `json:"doctor_firstname" form:"doctor_firstname"`
	DoctorLastname  string `json:"doctor_lastname" form:"doctor_lastname"`
	DoctorSpecialty string `json:"doctor_specialty" form:"doctor_specialty"`

	Date string   `json:"booking_date" form:"booking_date"`
	Time string   `json:"booking_time" form:"booking_time"`
	Fees *float64 `json:"booking_fees" form:"booking_fees"`

	Status  string  `json:"booking_status" form:"booking_status"`
	Link    string  `json:"booking_link" form:"booking_link"`
	Receipt *string `json:"booking_receipt" form:"-"`

	Prescriptions []string `json:"booking_prescription" form:"-"`
	UserDocs      []string `json:"booking_user_doc" form:"-"`
}

type updateBookingRequest struct {
	Status     *string  `json:"booking_status"`
	Link       *string  `json:"booking_link"`
	Receipt    *string  `json:"booking_receipt"`
	UserEmail  *string  `json:"user_email"`
	UserMobile *string  `json:"user_mobile"`
	Date       *string  `json:"booking_date"`
	Time       *string  `json:"booking_time"`
	Fees       *float64 `json:"booking_fees"`

	Prescriptions *[]string `json:"booking_prescription"`
	UserDocs      *[]string `json:"booking_user_doc"`
}

func (r updateBookingRequest) toPatch() (domain.Patch, error) {
	p := domain.Patch{
		Link:          r.Link,
		Receipt:       r.Receipt,
		UserEmail:     r.UserEmail,
		UserMobile:    r.UserMobile,
		Date:          r.Date,
		Time:          r.Time,
		Fees:          r.Fees,
		Prescriptions: r.Prescriptions,
		UserDocs:      r.UserDocs,
	}

	if r.Status != nil {
		s, ok := domain.ParseStatus(*r.Status)
		if !ok {
			return p, &domain.ValidationError{Fields: map[string]string{
				"booking_status": "must be one of Pending, Processing, Confirmed, Link",
			}}
		}
		p.Status = &s
	}
	return p, nil
}

type attachmentsRequest struct {
	Prescriptions []string `json:"booking_prescription"`
	UserDocs      []string `json:"booking_user_doc"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest

	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
		if err := bindMultipartLists(c, &req); err != nil {
			respondError(c, h.log, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	callerID, role := middleware.Caller(c)
	if role == models.RolePatient {
		if req.UserID != 0 && req.UserID != callerID {
			httperr.Forbidden(c, "forbidden", "patients can only book for themselves")
			return
		}
		req.UserID = callerID
	}

	var uploaded []string
	if isMultipart(c) {
		var err error
		if uploaded, err = h.uploadReceipt(c, &req); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:          req.UserID,
		UserEmail:       req.UserEmail,
		UserMobile:      req.UserMobile,
		DoctorID:        req.DoctorID,
		DoctorFirstname: req.DoctorFirstname,
		DoctorLastname:  req.DoctorLastname,
		DoctorSpecialty: req.DoctorSpecialty,
		Date:            req.Date,
		Time:            req.Time,
		Fees:            req.Fees,
		Status:          req.Status,
		Link:            req.Link,
		Receipt:         req.Receipt,
		Prescriptions:   req.Prescriptions,
		UserDocs:        req.UserDocs,
	})
	if err != nil {
		h.files.discard(c.Request.Context(), uploaded)
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// bindMultipartLists reads the attachment list fields of a multipart
// booking form.
func bindMultipartLists(c *gin.Context, req *createBookingRequest) error {
	verr := &domain.ValidationError{}

	if raw := c.PostForm("booking_prescription"); raw != "" {
		ids, err := domain.ParseAttachmentList(raw)
		if err != nil {
			verr.Add("booking_prescription", "must be a JSON array or comma-separated list")
		}
		req.Prescriptions = ids
	}
	if raw := c.PostForm("booking_user_doc"); raw != "" {
		ids, err := domain.ParseAttachmentList(raw)
		if err != nil {
			verr.Add("booking_user_doc", "must be a JSON array or comma-separated list")
		}
		req.UserDocs = ids
	}

	return verr.Err()
}

// uploadReceipt stores an attached booking_receipt file, or takes the field
// as an existing blob id. It returns the ids uploaded by this request.
func (h *BookingHandler) uploadReceipt(c *gin.Context, req *createBookingRequest) ([]string, error) {
	fh, err := c.FormFile("booking_receipt")
	if err != nil {
		if raw := strings.TrimSpace(c.PostForm("booking_receipt")); raw != "" {
			req.Receipt = &raw
		}
		return nil, nil
	}

	obj, err := h.files.upload(c.Request.Context(), fh)
	if err != nil {
		return nil, err
	}
	req.Receipt = &obj.ID
	return []string{obj.ID}, nil
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	callerID, role := middleware.Caller(c)
	if role == models.RolePatient && callerID != userID {
		httperr.Forbidden(c, "forbidden", "patients can only list their own bookings")
		return
	}

	out, err := h.list.ByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

func (h *BookingHandler) List(c *gin.Context) {
	out, err := h.list.All(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if !h.canAccess(c, b) {
		// same answer as a missing booking
		httperr.NotFound(c, "booking_not_found", "booking not found")
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Count(c *gin.Context) {
	n, err := h.stats.Count(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"count": n})
}

func (h *BookingHandler) Stats(c *gin.Context) {
	counts, err := h.stats.CountByStatus(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.OK(c, counts)
}

// ======================================================
// WRITE
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	affected, err := h.update.Execute(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "booking updated", "affected": affected})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.del.Execute(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "booking deleted"})
}

func (h *BookingHandler) AddPrescription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.list.Get(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	ids, uploaded, ok := h.collectAttachments(c, "booking_prescription")
	if !ok {
		return
	}
	ids = domain.NormalizeAttachments(ids)

	if err := h.prescription.Execute(c.Request.Context(), id, ids); err != nil {
		h.files.discard(c.Request.Context(), uploaded)
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "prescription saved", "booking_prescription": ids})
}

func (h *BookingHandler) AddDocuments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !h.canAccess(c, b) {
		httperr.NotFound(c, "booking_not_found", "booking not found")
		return
	}

	ids, uploaded, ok := h.collectAttachments(c, "booking_user_doc")
	if !ok {
		return
	}
	ids = domain.NormalizeAttachments(ids)

	if err := h.documents.Execute(c.Request.Context(), id, ids); err != nil {
		h.files.discard(c.Request.Context(), uploaded)
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "documents saved", "booking_user_doc": ids})
}

// ======================================================
// HELPERS
// ======================================================

func (h *BookingHandler) canAccess(c *gin.Context, b *models.Booking) bool {
	callerID, role := middleware.Caller(c)
	return role != models.RolePatient || b.UserID == callerID
}

// collectAttachments reads an ordered attachment list. JSON bodies carry
// the ids under field. Multipart bodies may carry ids in the field (JSON
// array or comma list) followed by uploaded "files", stored in order. The
// second result lists the ids uploaded by this request.
func (h *BookingHandler) collectAttachments(c *gin.Context, field string) ([]string, []string, bool) {
	if !isMultipart(c) {
		var req attachmentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return nil, nil, false
		}
		if field == "booking_prescription" {
			return req.Prescriptions, nil, true
		}
		return req.UserDocs, nil, true
	}

	ids, err := domain.ParseAttachmentList(c.PostForm(field))
	if err != nil {
		httperr.Validation(c, map[string]string{field: "must be a JSON array or comma-separated list"})
		return nil, nil, false
	}

	form, err := c.MultipartForm()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return nil, nil, false
	}

	var uploaded []string
	for _, fh := range form.File["files"] {
		obj, err := h.files.upload(c.Request.Context(), fh)
		if err != nil {
			h.files.discard(c.Request.Context(), uploaded)
			respondError(c, h.log, err)
			return nil, nil, false
		}
		uploaded = append(uploaded, obj.ID)
		ids = append(ids, obj.ID)
	}

	return ids, uploaded, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// --------- Uploads ---------

type fileUploader struct {
	store    blob.Store
	maxBytes int64
	log      *zap.Logger
}

func (u *fileUploader) upload(ctx context.Context, fh *multipart.FileHeader) (blob.Object, error) {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return blob.Object{}, &domain.ValidationError{Fields: map[string]string{
			"file": "must not exceed " + strconv.FormatInt(u.maxBytes, 10) + " bytes",
		}}
	}

	f, err := fh.Open()
	if err != nil {
		return blob.Object{}, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	return u.store.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
}

// discard removes blobs uploaded by a request that then failed. Failures
// are only logged; the request already has an error to report.
func (u *fileUploader) discard(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := u.store.Delete(ctx, id); err != nil {
			u.log.Warn("discarding upload failed", zap.String("id", id), zap.Error(err))
		}
	}
}
