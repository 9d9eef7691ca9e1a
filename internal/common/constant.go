package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the signed token inside the Authorization header.
const BearerPrefix = "Bearer "

// UploadsURLPrefix is the public URL prefix of stored images. Project image
// paths are kept in the database in this form, e.g. /uploads/projects/x.jpg.
const UploadsURLPrefix = "/uploads/"
