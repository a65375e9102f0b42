// Package minio stores serialized arrays in MinIO or any S3-compatible
// service reachable through minio-go (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//		return err
//	}
//	store := minioblob.NewStore(client, "models", "embeddings/")
//	err = embedpq.Save(ctx, store, "glove-300d.epq", arr)
//
// Uploads carry a Content-MD5 header. Reads issue one ranged GET per ReadAt
// call, so Load fetches a blob in a single request.
package minio
