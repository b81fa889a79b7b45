package common

// MeshFilesField is the multipart field carrying mesh file attachments.
const MeshFilesField = "files"

// BearerPrefix precedes identity tokens passed in the Authorization header.
const BearerPrefix = "Bearer "
